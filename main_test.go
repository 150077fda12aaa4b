package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_InvalidConfigReturnsError(t *testing.T) {
	tests := map[string]struct {
		env  map[string]string
		want string
	}{
		"reap interval": {env: map[string]string{"REAP_INTERVAL": "soon"}, want: "invalid REAP_INTERVAL"},
		"report chat":   {env: map[string]string{"REPORT_CHAT_ID": "here"}, want: "invalid REPORT_CHAT_ID"},
		"admin ids":     {env: map[string]string{"ADMIN_IDS": "1,x"}, want: "invalid ADMIN_IDS"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("REAP_INTERVAL", "1m")
			t.Setenv("REPORT_CHAT_ID", "")
			t.Setenv("ADMIN_IDS", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			require.ErrorContains(t, run(false), tt.want)
		})
	}
}

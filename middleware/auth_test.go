package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateAndAuthorize(t *testing.T) {
	secret := []byte("test-secret")

	organizer, err := IssueToken(secret, "alice", RoleOrganizer, time.Hour)
	require.NoError(t, err)
	viewer, err := IssueToken(secret, "bob", "viewer", time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(secret, "carol", RoleOrganizer, -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueToken([]byte("other-secret"), "dave", RoleOrganizer, time.Hour)
	require.NoError(t, err)

	var seenSubject string
	protected := Authenticate(secret)(Authorize(RoleOrganizer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSubject, _ = GetSubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "organizer", header: "Bearer " + organizer, want: http.StatusNoContent},
		{name: "wrong role", header: "Bearer " + viewer, want: http.StatusForbidden},
		{name: "expired", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, want: http.StatusUnauthorized},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tournaments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, "alice", seenSubject)
}

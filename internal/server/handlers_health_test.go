package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/mhellwig/forumpulse/internal/config"
)

type fakeRedisChecker struct {
	err error
}

func (f *fakeRedisChecker) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetErr(f.err)
	return cmd
}

type fakePostgresChecker struct {
	err error
}

func (f *fakePostgresChecker) Ping(context.Context) error {
	return f.err
}

func newHealthTestServer(redisErr, postgresErr error) *Server {
	cfg := &config.Config{AppEnv: "test", Port: "0"}
	return NewServer(cfg, &mockService{}, &fakeRedisChecker{err: redisErr}, &fakePostgresChecker{err: postgresErr})
}

func TestHandleLiveness(t *testing.T) {
	srv := newHealthTestServer(nil, nil)

	rec := doRequest(t, srv, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleReadiness(t *testing.T) {
	tests := []struct {
		name        string
		redisErr    error
		postgresErr error
		wantCode    int
		wantBody    string
	}{
		{"all healthy", nil, nil, http.StatusOK, `"status":"ready"`},
		{"redis down", errors.New("connection refused"), nil, http.StatusServiceUnavailable, `"failed_check":"redis"`},
		{"postgres down", nil, errors.New("connection refused"), http.StatusServiceUnavailable, `"failed_check":"postgres"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newHealthTestServer(tt.redisErr, tt.postgresErr)

			rec := doRequest(t, srv, http.MethodGet, "/health/ready", "", "")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

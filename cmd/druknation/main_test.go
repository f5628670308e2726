package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/outliers/druknation/internal/config"
	"github.com/outliers/druknation/internal/corpus"
	"github.com/outliers/druknation/internal/fetch"
	"github.com/outliers/druknation/internal/pipeline"
	"github.com/outliers/druknation/internal/server"
)

func testConfig() *config.Config {
	c := config.Default()
	c.BcryptCost = 10
	return c
}

func testCommand(stdin string) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	return cmd, &out
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    zapcore.Level
	}{
		{level: "info", want: zapcore.InfoLevel},
		{level: "warn", want: zapcore.WarnLevel},
		{level: "error", verbose: true, want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := newLogger(tt.level, tt.verbose)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.want))
			assert.False(t, log.Core().Enabled(tt.want-1))
		})
	}

	_, err := newLogger("loud", false)
	assert.Error(t, err)
}

func TestSourcesFromConfig(t *testing.T) {
	c := testConfig()
	c.DocumentPath = "/data/penal.pdf"
	c.UseBrowser = true

	src := sourcesFromConfig(c)

	assert.Equal(t, "/data/penal.pdf", src.DocumentPath)
	assert.Equal(t, config.DefaultReferenceURL, src.ReferenceURL)
	assert.True(t, src.UseBrowser)
	require.NotNil(t, src.FetchOptions)
	assert.Equal(t, config.DefaultFetchTimeout, src.FetchOptions.Timeout)
	assert.NotEmpty(t, src.FetchOptions.UserAgent)
}

func TestNewApp_WithoutAPIKey(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := testConfig()
	c.DatabaseURL = "postgres://unused"

	a, err := newApp(context.Background(), c, zap.New(core), false)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.client)
	assert.Nil(t, a.database, "database is only connected when requested")
	assert.False(t, a.answers.Initialized())
	assert.False(t, a.store.Loaded())
	assert.Equal(t, 1, logs.Len())
}

func TestRunOperatorHash(t *testing.T) {
	cfg = testConfig()

	t.Run("argument", func(t *testing.T) {
		cmd, out := testCommand("")
		require.NoError(t, runOperatorHash(cmd, []string{"s3cret"}))
		hash := strings.TrimSpace(out.String())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
	})

	t.Run("stdin", func(t *testing.T) {
		cmd, out := testCommand("from-stdin\n")
		require.NoError(t, runOperatorHash(cmd, nil))
		hash := strings.TrimSpace(out.String())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("from-stdin")))
	})

	t.Run("empty", func(t *testing.T) {
		cmd, _ := testCommand("\n")
		assert.Error(t, runOperatorHash(cmd, nil))
	})
}

func TestRunOperatorToken(t *testing.T) {
	cfg = testConfig()
	operatorSubject = server.RoleOperator

	cmd, _ := testCommand("")
	assert.Error(t, runOperatorToken(cmd, nil), "token requires JWT_SECRET")

	cfg.JWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"
	cmd, out := testCommand("")
	require.NoError(t, runOperatorToken(cmd, nil))

	jwtConfig, err := cfg.JWT()
	require.NoError(t, err)
	claims, err := server.NewJWTService(jwtConfig).ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, server.RoleOperator, claims.GetOperator())
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "ask", "documents", "operator"})
}

func TestRunServe_MissingDocumentFailsStartup(t *testing.T) {
	reference := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><div id=\"mw-content-text\"><p>Law of Bhutan</p></div></body></html>"))
	}))
	defer reference.Close()

	prevCfg, prevLogger := cfg, logger
	t.Cleanup(func() { cfg, logger = prevCfg, prevLogger })

	cfg = testConfig()
	cfg.DocumentPath = filepath.Join(t.TempDir(), "missing.pdf")
	cfg.ReferenceURL = reference.URL
	logger = zap.NewNop()

	cmd, _ := testCommand("")
	cmd.SetContext(context.Background())

	done := make(chan error, 1)
	go func() { done <- runServe(cmd, nil) }()

	var err error
	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return; the listener started despite a failed load")
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startup failed")

	var initErr *pipeline.InitError
	require.True(t, errors.As(err, &initErr), "error: %v", err)
	assert.Equal(t, corpus.SourcePrimary, initErr.Source)
	assert.Equal(t, pipeline.StageFetch, initErr.Stage)

	var notFound *fetch.NotFoundError
	require.True(t, errors.As(err, &notFound), "error: %v", err)
	assert.Equal(t, cfg.DocumentPath, notFound.Path)
}

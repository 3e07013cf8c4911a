package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/paging"
	"github.com/kenbun-app/kenbundata/internal/schema"
	"github.com/kenbun-app/kenbundata/internal/storage"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(CodeNotFound, "url not found", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
	assert.Equal(t, "url not found", resp.Error.Message)
}

func TestOutputFormatter_YAMLKeepsJSONShape(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "yaml",
		Writer: buf,
	}

	u := &schema.URL{
		ID:        fields.MustParseID("zegKeMRzTSux24g3kzp6nw"),
		URL:       "https://kenbun.app",
		CreatedAt: fields.TimestampFromMicros(1674397764479000),
		UpdatedAt: fields.TimestampFromMicros(1674397764479000),
	}
	require.NoError(t, formatter.Success(urlView{u}))

	want := `status: ok
data:
  id: zegKeMRzTSux24g3kzp6nw
  url: https://kenbun.app
  createdAt: 1674397764479000
  updatedAt: 1674397764479000
`
	assert.Equal(t, want, buf.String())
}

func TestOutputFormatter_YAMLQuotesAmbiguousStrings(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "yaml", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"version": "1.2", "flag": "true"}))
	assert.Contains(t, buf.String(), `version: "1.2"`)
	assert.Contains(t, buf.String(), `flag: "true"`)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("stored 2 urls")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "stored 2 urls")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error(CodeInvalidEntity, "invalid URL", map[string]string{"url": "bad"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E_INVALID_ENTITY]")
	assert.Contains(t, buf.String(), "invalid URL")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error(CodeInvalidEntity, "invalid URL", map[string]string{"url": "bad"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			diag := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: diag,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("listed %d urls", 3)

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Contains(t, diag.String(), "listed 3 urls")
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestClassify(t *testing.T) {
	id := fields.MustParseID("z1dDLoCeQ1OtvZ1cDXM4aA")
	_, idErr := fields.ParseID("nope")
	entityErr := schema.Validate(schema.NewURL("ftp://kenbun.app"))
	require.Error(t, entityErr)

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"not found", fmt.Errorf("get: %w", &storage.NotFoundError{Kind: schema.KindURL, ID: id}), CodeNotFound, ExitFailure},
		{"invalid entity", entityErr, CodeInvalidEntity, ExitFailure},
		{"invalid id", idErr, CodeInvalidInput, ExitCommandError},
		{"invalid limit", fmt.Errorf("%w: limit", paging.ErrInvalidArgument), CodeInvalidInput, ExitCommandError},
		{"command error", WrapExitError(ExitCommandError, "failed to open storage", errors.New("boom")), CodeCommand, ExitCommandError},
		{"other", errors.New("boom"), CodeFailure, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := classify(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exit)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("x: %w", NewExitError(ExitCommandError, "bad"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "bad", NewExitError(ExitFailure, "bad").Error())
	err := WrapExitError(ExitFailure, "failed to open storage", errors.New("boom"))
	assert.Equal(t, "failed to open storage: boom", err.Error())
	assert.ErrorContains(t, errors.Unwrap(err), "boom")
}

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityFromCode(t *testing.T) {
	tests := []struct {
		code int
		want Severity
	}{
		{2, SeverityError},
		{1, SeverityWarning},
		{0, SeverityWarning},
		{3, SeverityWarning},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityFromCode(tt.code), "code %d", tt.code)
	}
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
}

func TestNormalizeMissingFields(t *testing.T) {
	var msg LintMessage
	require.NoError(t, json.Unmarshal([]byte(`{"severity":2,"message":"Parsing error","ruleId":null}`), &msg))

	n := Normalize(msg)
	assert.Nil(t, n.Line)
	assert.Nil(t, n.Column)
	assert.Equal(t, "", n.RuleID)
	assert.Equal(t, SeverityError, n.Severity)
	assert.Equal(t, "Parsing error", n.Message)
}

package edition_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corduroy/collector/internal/domain"
	"github.com/corduroy/collector/internal/edition"
)

func strPtr(s string) *string {
	return &s
}

func TestParseMapping(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    edition.Mapping
		expectedErr string
	}{
		{
			name:     "empty",
			raw:      "",
			expected: edition.Mapping{},
		},
		{
			name:     "json strings",
			raw:      `{"PIN123":"1","PIN456":"2"}`,
			expected: edition.Mapping{"PIN123": "1", "PIN456": "2"},
		},
		{
			name:     "json integers",
			raw:      `{"PIN123":1,"PIN456":"corduroy"}`,
			expected: edition.Mapping{"PIN123": "1", "PIN456": "corduroy"},
		},
		{
			name:     "csv pairs",
			raw:      "PIN123:1, PIN456 : 2,",
			expected: edition.Mapping{"PIN123": "1", "PIN456": "2"},
		},
		{
			name:        "broken json does not fall back to csv",
			raw:         `{"PIN123":"1",`,
			expectedErr: "failed to decode JSON mapping",
		},
		{
			name:        "json negative number",
			raw:         `{"PIN123":-1}`,
			expectedErr: "not a non-negative integer",
		},
		{
			name:        "json nested value",
			raw:         `{"PIN123":{"id":1}}`,
			expectedErr: "must be a string or integer",
		},
		{
			name:        "json duplicate key",
			raw:         `{"PIN1":"1","PIN1":"2"}`,
			expectedErr: "duplicate mapping key",
		},
		{
			name:        "json trailing data",
			raw:         `{"PIN1":"1"} {"PIN2":"2"}`,
			expectedErr: "trailing data",
		},
		{
			name:        "csv missing value",
			raw:         "PIN123:,PIN456:2",
			expectedErr: "empty key or value",
		},
		{
			name:        "csv missing separator",
			raw:         "PIN123",
			expectedErr: "expected KEY:VALUE",
		},
		{
			name:        "csv duplicate key",
			raw:         "PIN123:1,PIN123:2",
			expectedErr: "duplicate mapping key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := edition.ParseMapping(tt.raw)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestMapping_String(t *testing.T) {
	m := edition.Mapping{"b": "2", "a": "1"}
	assert.Equal(t, "a:1,b:2", m.String())

	parsed, err := edition.ParseMapping(m.String())
	require.NoError(t, err)
	assert.Equal(t, m, parsed)
}

func TestNewResolver_Validation(t *testing.T) {
	_, err := edition.NewResolver(edition.Mapping{}, edition.Mapping{"corduroy": "abc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidEditionID))

	_, err = edition.NewResolver(edition.Mapping{"PIN1": "unknown"}, edition.Mapping{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither an edition id nor a known label")

	_, err = edition.NewResolver(edition.Mapping{"PIN1": "corduroy"}, edition.Mapping{"corduroy": "3"})
	require.NoError(t, err)
}

func TestResolver_Resolve(t *testing.T) {
	resolver, err := edition.NewResolver(
		edition.Mapping{"PIN123": "1", "PIN999": "corduroy"},
		edition.Mapping{"abc": "2", "corduroy": "3"},
	)
	require.NoError(t, err)

	tests := []struct {
		name        string
		req         edition.Request
		expected    string
		expectedErr error
	}{
		{
			name:     "pin maps to id",
			req:      edition.Request{PIN: strPtr("PIN123")},
			expected: "1",
		},
		{
			name:     "pin wins over art id",
			req:      edition.Request{PIN: strPtr("PIN123"), ArtID: "4"},
			expected: "1",
		},
		{
			name:     "pin chains through label",
			req:      edition.Request{PIN: strPtr("PIN999")},
			expected: "3",
		},
		{
			name:        "unknown pin",
			req:         edition.Request{PIN: strPtr("NOPE"), ArtID: "1"},
			expectedErr: domain.ErrPINNotFound,
		},
		{
			name:     "numeric art id",
			req:      edition.Request{ArtID: "4"},
			expected: "4",
		},
		{
			name:     "label art id",
			req:      edition.Request{ArtID: "abc"},
			expected: "2",
		},
		{
			name:        "unmapped label",
			req:         edition.Request{ArtID: "xyz"},
			expectedErr: domain.ErrInvalidEditionID,
		},
		{
			name:        "negative art id",
			req:         edition.Request{ArtID: "-1"},
			expectedErr: domain.ErrInvalidEditionID,
		},
		{
			name:        "empty",
			req:         edition.Request{},
			expectedErr: domain.ErrInvalidEditionID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := resolver.Resolve(tt.req)
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id.String())
		})
	}
}

func TestResolver_TablesAreCopies(t *testing.T) {
	pins := edition.Mapping{"PIN1": "1"}
	resolver, err := edition.NewResolver(pins, edition.Mapping{})
	require.NoError(t, err)

	pins["PIN2"] = "2"
	_, err = resolver.Resolve(edition.Request{PIN: strPtr("PIN2")})
	assert.True(t, errors.Is(err, domain.ErrPINNotFound))

	exposed := resolver.Pins()
	exposed["PIN3"] = "3"
	_, err = resolver.Resolve(edition.Request{PIN: strPtr("PIN3")})
	assert.True(t, errors.Is(err, domain.ErrPINNotFound))
}

func TestResolver_CandidateError(t *testing.T) {
	resolver, err := edition.NewResolver(edition.Mapping{"PIN1": "one"}, edition.Mapping{"one": "1"})
	require.NoError(t, err)

	_, err = resolver.Resolve(edition.Request{ArtID: "abc"})
	var candidateErr *edition.CandidateError
	require.True(t, errors.As(err, &candidateErr))
	assert.Equal(t, "abc", candidateErr.Candidate)
	assert.Equal(t, "artId/editionId must be numeric, got 'abc'", err.Error())
}

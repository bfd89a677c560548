package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocument(t *testing.T) {
	t.Run("object content", func(t *testing.T) {
		doc, err := DecodeDocument([]byte(`{"experience":[{"company":"Acme","title":"Eng","startDate":"2020-01","currentlyWorking":true}]}`))
		require.NoError(t, err)
		require.Len(t, doc.Experience, 1)
		assert.Equal(t, "Acme", doc.Experience[0].Company)
		assert.True(t, doc.Experience[0].CurrentlyWorking)
	})

	t.Run("content stored as a JSON string is unwrapped", func(t *testing.T) {
		inner := `{"certifications":"AWS SAA"}`
		wrapped, err := json.Marshal(inner)
		require.NoError(t, err)

		doc, err := DecodeDocument(wrapped)
		require.NoError(t, err)
		assert.Equal(t, "AWS SAA", doc.Certifications)
	})

	t.Run("empty and null content decode to an empty document", func(t *testing.T) {
		for _, raw := range []string{"", "null", `""`} {
			doc, err := DecodeDocument([]byte(raw))
			require.NoError(t, err, raw)
			assert.Equal(t, &ResumeDocument{}, doc)
		}
	})

	t.Run("non-object content is rejected", func(t *testing.T) {
		_, err := DecodeDocument([]byte(`[1,2,3]`))
		assert.Error(t, err)
	})
}

func TestPortfolioLinks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want LinkList
	}{
		{name: "comma separated string", raw: `{"other":"https://a.dev, https://b.dev ,"}`, want: LinkList{"https://a.dev", "https://b.dev"}},
		{name: "array", raw: `{"other":["https://a.dev"," ","https://c.dev"]}`, want: LinkList{"https://a.dev", "https://c.dev"}},
		{name: "absent", raw: `{"main":"https://me.dev"}`, want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p Portfolio
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &p))
			assert.Equal(t, tc.want, p.Other)
		})
	}
}

func TestSummaryAcceptsBareString(t *testing.T) {
	var doc ResumeDocument
	require.NoError(t, json.Unmarshal([]byte(`{"summary":"Experienced Engineer."}`), &doc))
	require.NotNil(t, doc.Summary)
	assert.Equal(t, "Experienced Engineer.", doc.Summary.Text)

	require.NoError(t, json.Unmarshal([]byte(`{"summary":{"years":"5","summary":"Generated"}}`), &doc))
	assert.Equal(t, "5", doc.Summary.Years)
	assert.Equal(t, "Generated", doc.Summary.Text)
}

func TestResponsibilitiesAcceptLines(t *testing.T) {
	var exp Experience
	require.NoError(t, json.Unmarshal([]byte(`{"responsibilities":["Built APIs","Led team"]}`), &exp))
	assert.Equal(t, TextBlock("Built APIs\nLed team"), exp.Responsibilities)
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError("validation failed")
	assert.NoError(t, verr.OrNil())

	verr.Add("experience.0.company", "Company is required")
	verr.Add("experience.0.company", "ignored second message")

	err := verr.OrNil()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Company is required", verr.Fields["experience.0.company"])
	assert.Contains(t, err.Error(), "experience.0.company")
}

func TestResumeStatusValid(t *testing.T) {
	assert.True(t, ResumeStatusDraft.Valid())
	assert.True(t, ResumeStatusCompleted.Valid())
	assert.False(t, ResumeStatus("archived").Valid())
}

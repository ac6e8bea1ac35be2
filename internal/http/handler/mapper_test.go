package handler

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/http/response"
)

func knownCategories(names ...string) func(string) bool {
	return func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

func patchBody(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &body))
	return body
}

func TestToTaskPatch_MaskFollowsKeys(t *testing.T) {
	p, err := toTaskPatch(patchBody(t, `{
		"title": " New ",
		"dueDate": "2025-04-01",
		"dueTime": null,
		"category": "Study",
		"reminderEnabled": false
	}`), knownCategories("Study"))
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.ElementsMatch(t, []string{
		domain.FieldTitle, domain.FieldDueDate, domain.FieldDueTime,
		domain.FieldCategory, domain.FieldReminderEnabled,
	}, p.UpdateMask)
	assert.Equal(t, "New", *p.Title)
	assert.Equal(t, domain.NewDate(2025, time.April, 1), *p.DueDate)
	assert.Nil(t, p.DueTime)
	assert.False(t, *p.ReminderEnabled)
}

func TestToTaskPatch_EmptyStringClearsOptionalFields(t *testing.T) {
	p, err := toTaskPatch(patchBody(t, `{"dueDate":"","reminderTime":""}`), knownCategories())
	require.NoError(t, err)

	assert.True(t, p.Has(domain.FieldDueDate))
	assert.Nil(t, p.DueDate)
	assert.True(t, p.Has(domain.FieldReminderTime))
	assert.Nil(t, p.ReminderTime)
}

func TestToTaskPatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		field   string
		wantErr error
	}{
		{name: "empty", body: `{}`, field: "update", wantErr: domain.ErrEmptyUpdateMask},
		{name: "unknown key", body: `{"id":"x"}`, field: "id", wantErr: domain.ErrUnknownField},
		{name: "null priority", body: `{"priority":null}`, field: "priority", wantErr: domain.ErrFieldRequired},
		{name: "bad priority", body: `{"priority":"urgent"}`, field: "priority", wantErr: domain.ErrInvalidPriority},
		{name: "bad clock", body: `{"dueTime":"7pm"}`, field: "dueTime", wantErr: domain.ErrInvalidClock},
		{name: "unknown category", body: `{"category":"Garden"}`, field: "category", wantErr: domain.ErrUnknownCategory},
		{name: "wrong type", body: `{"description":42}`, field: "description", wantErr: errNotString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toTaskPatch(patchBody(t, tt.body), knownCategories("Work"))

			var fe *response.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestToFilter(t *testing.T) {
	empty := ""
	high := "HIGH"
	done := true

	f, err := toFilter(filterRequest{Category: &empty, Priority: &high, Completed: &done, SearchQuery: "x"})
	require.NoError(t, err)
	assert.Nil(t, f.Category)
	assert.Equal(t, domain.PriorityHigh, *f.Priority)
	assert.True(t, *f.Completed)
	assert.Equal(t, "x", f.SearchQuery)

	bad := "urgent"
	_, err = toFilter(filterRequest{Priority: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestParseFilterQuery(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPresent bool
		check       func(t *testing.T, f domain.Filter)
	}{
		{
			name:  "none",
			query: "view=sorted",
			check: func(t *testing.T, f domain.Filter) { assert.True(t, f.IsEmpty()) },
		},
		{
			name:        "all values are unconstrained",
			query:       "category=all&priority=all&completed=all",
			wantPresent: true,
			check:       func(t *testing.T, f domain.Filter) { assert.True(t, f.IsEmpty()) },
		},
		{
			name:        "every dimension",
			query:       "category=Work&priority=low&completed=false&q=mail",
			wantPresent: true,
			check: func(t *testing.T, f domain.Filter) {
				assert.Equal(t, "Work", *f.Category)
				assert.Equal(t, domain.PriorityLow, *f.Priority)
				assert.False(t, *f.Completed)
				assert.Equal(t, "mail", f.SearchQuery)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			f, present, err := parseFilterQuery(q)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPresent, present)
			tt.check(t, f)
		})
	}
}

func TestParseFilterQuery_Errors(t *testing.T) {
	_, _, err := parseFilterQuery(url.Values{"completed": {"maybe"}})
	assert.ErrorIs(t, err, errInvalidCompleted)

	_, _, err = parseFilterQuery(url.Values{"priority": {"urgent"}})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

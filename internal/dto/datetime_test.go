package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTime_UnmarshalJSON(t *testing.T) {
	SetInputLocation(time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2024-05-10T20:00:00+07:00"`, time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC)},
		{`"2024-05-10 20:00:00"`, time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)},
		{`"2024-05-10T20:00"`, time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)},
		{`"2024-05-10"`, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var d DateTime
		require.NoError(t, json.Unmarshal([]byte(tt.in), &d), tt.in)
		assert.True(t, tt.want.Equal(d.Time), tt.in)
	}
}

func TestDateTime_Invalid(t *testing.T) {
	var req struct {
		DueDate *DateTime `json:"due_date"`
	}
	err := json.Unmarshal([]byte(`{"due_date":"tomorrow"}`), &req)

	var dateErr *InvalidDateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, "due_date", dateErr.Field())
	assert.Equal(t, "The due date field must be a valid date.", dateErr.Error())
}

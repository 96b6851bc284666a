package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{"number", `55000`, floatPtr(55000)},
		{"decimal", `1234.56`, floatPtr(1234.56)},
		{"numeric string", `"75000"`, floatPtr(75000)},
		{"padded numeric string", `"  60000 "`, floatPtr(60000)},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
		{"non numeric string", `"negotiable"`, nil},
		{"boolean", `true`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n NullableFloat
			err := json.Unmarshal([]byte(tt.input), &n)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Nil(t, n.Value)
			} else {
				require.NotNil(t, n.Value)
				assert.Equal(t, *tt.want, *n.Value)
			}
		})
	}
}

func TestNullableFloat_InsideRequestBody(t *testing.T) {
	var req PostulationRequest
	body := `{"position":"Engineer","expectedSalary":"not a number"}`

	err := json.Unmarshal([]byte(body), &req)

	require.NoError(t, err, "a garbage salary must not fail the whole request")
	assert.Nil(t, req.ExpectedSalary.Value)
}

func TestNullableFloat_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(NullableFloat{Value: floatPtr(90000)})
	require.NoError(t, err)
	assert.Equal(t, "90000", string(out))

	out, err = json.Marshal(NullableFloat{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestNormalizeOptionalString(t *testing.T) {
	assert.Nil(t, NormalizeOptionalString(""))
	assert.Nil(t, NormalizeOptionalString("   "))
	assert.Nil(t, NormalizeOptionalString("\t\n"))

	got := NormalizeOptionalString("  Madrid  ")
	require.NotNil(t, got)
	assert.Equal(t, "Madrid", *got)
}

func floatPtr(f float64) *float64 { return &f }

package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_PriorityOrder(t *testing.T) {
	assert.Equal(t, []ID{Klarna, Affirm, Afterpay, PayPal, Zip, Sezzle}, All())

	// Callers get a copy.
	ids := All()
	ids[0] = Sezzle
	assert.Equal(t, Klarna, All()[0])
}

func TestProfileFor_EveryProvider(t *testing.T) {
	for _, id := range All() {
		p, ok := ProfileFor(id)
		require.True(t, ok, id.String())
		assert.Equal(t, id, p.ID)
		assert.Equal(t, id.String(), p.Name)
		assert.NotEmpty(t, p.Domains)
		assert.NotEmpty(t, p.Keywords)
		assert.NotEmpty(t, p.Amount)
		assert.NotEmpty(t, p.DueDate)
		assert.NotEmpty(t, p.Installment)
		assert.NotEmpty(t, p.FinalPayment)
		assert.Regexp(t, `^[A-Z]{3}$`, p.DefaultCurrency)
		assert.Positive(t, p.DefaultTotal)
	}

	_, ok := ProfileFor(Unknown)
	assert.False(t, ok)
	_, ok = ProfileFor(ID(42))
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	id, ok := Parse("  PayPal ")
	assert.True(t, ok)
	assert.Equal(t, PayPal, id)

	id, ok = Parse("klarna")
	assert.True(t, ok)
	assert.Equal(t, Klarna, id)

	_, ok = Parse("unknown")
	assert.False(t, ok)
	_, ok = Parse("venmo")
	assert.False(t, ok)
}

func TestID_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Provider ID `json:"provider"`
	}{Afterpay})
	require.NoError(t, err)
	assert.JSONEq(t, `{"provider":"Afterpay"}`, string(b))

	var out struct {
		Provider ID `json:"provider"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"provider":"sezzle"}`), &out))
	assert.Equal(t, Sezzle, out.Provider)

	assert.Error(t, json.Unmarshal([]byte(`{"provider":"venmo"}`), &out))

	_, err = json.Marshal(Unknown)
	assert.Error(t, err)
}

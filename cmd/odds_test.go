package cmd

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"lottocheck/config"
	"lottocheck/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOdds_TableOnly(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	// no trials, so no draw source is needed
	require.NoError(t, Odds(context.Background(), config.NewTestConfig(), &out, 0, "latest"))

	assert.Contains(t, out.String(), "8,145,060 combinations")
	assert.Contains(t, out.String(), "1 in 8145060.0")
	assert.Contains(t, out.String(), "182,780")
	assert.NotContains(t, out.String(), "Simulated")
}

func TestOdds_Simulate(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := Odds(context.Background(), newDrawSource(t, http.StatusOK), &out, 2000, "latest")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Simulated 2,000 tickets against draw 1100")
	assert.Contains(t, out.String(), "χ² =")
}

func TestOdds_SimulateErrors(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := Odds(context.Background(), newDrawSource(t, http.StatusOK), &out, 100, "soon")
	assert.ErrorIs(t, err, entities.ErrInvalidDrawID)

	out.Reset()
	err = Odds(context.Background(), newDrawSource(t, http.StatusOK), &out, 100, "1101")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

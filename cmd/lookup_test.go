package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"lottocheck/config"
	"lottocheck/domain/entities"
	"lottocheck/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const draw1100 = `{"totSellamnt":111862226000,"returnValue":"success","drwNoDate":"2023-12-30","firstWinamnt":1921609125,"drwtNo6":43,"drwtNo4":30,"firstPrzwnerCo":14,"drwtNo5":31,"bnusNo":12,"drwNo":1100,"drwtNo2":26,"drwtNo3":29,"drwtNo1":17}`

// newDrawSource serves draw 1100 and reports every later draw as not drawn.
func newDrawSource(t *testing.T, status int) *config.Config {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "unavailable", status)
			return
		}
		id, _ := strconv.Atoi(r.URL.Query().Get("drwNo"))
		if id == 1100 {
			fmt.Fprint(w, draw1100)
			return
		}
		fmt.Fprint(w, `{"returnValue":"fail"}`)
	}))
	t.Cleanup(srv.Close)

	cfg := config.NewTestConfig()
	cfg.LottoAPIURL = srv.URL + "/common.do?method=getLottoNumber&drwNo="
	cfg.SearchUpperBound = 1102
	cfg.SearchFloor = 1090
	return cfg
}

func TestDraw(t *testing.T) {
	t.Parallel()

	for _, ref := range []string{"1100", "latest"} {
		ref := ref
		t.Run(ref, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			err := Draw(context.Background(), newDrawSource(t, http.StatusOK), &out, ref)
			require.NoError(t, err)

			assert.Contains(t, out.String(), "Draw 1100")
			assert.Contains(t, out.String(), "17 26 29 30 31 43 + 12")
			assert.Contains(t, out.String(), "2023-12-30")
			assert.Contains(t, out.String(), "1,921,609,125원 x 14")
		})
	}
}

func TestDraw_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ref    string
		status int
		want   error
	}{
		{name: "invalid ref", ref: "next", status: http.StatusOK, want: entities.ErrInvalidDrawID},
		{name: "not drawn", ref: "1101", status: http.StatusOK, want: entities.ErrNotFound},
		{name: "source down", ref: "1100", status: http.StatusInternalServerError, want: entities.ErrTransport},
		{name: "search exhausted", ref: "latest", status: http.StatusBadGateway, want: entities.ErrExhaustedSearch},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			err := Draw(context.Background(), newDrawSource(t, tt.status), &out, tt.ref)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := Check(context.Background(), newDrawSource(t, http.StatusOK), &out, 3, "1100")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	tickets := lines[len(lines)-3:]
	for i, line := range tickets {
		assert.True(t, strings.HasPrefix(line, strconv.Itoa(i+1)+"."), line)
		assert.Contains(t, line, "matched")
	}
}

func TestCheck_ComparisonUnavailable(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := Check(context.Background(), newDrawSource(t, http.StatusServiceUnavailable), &out, 2, "1100")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Comparison unavailable")
	assert.NotContains(t, out.String(), "matched")
	assert.Contains(t, out.String(), "2.")
}

func TestCheck_InvalidSets(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := Check(context.Background(), newDrawSource(t, http.StatusOK), &out, 0, "1100")
	assert.ErrorIs(t, err, entities.ErrInvalidTicketCount)
	assert.Empty(t, out.String())
}

func TestFormatEvent(t *testing.T) {
	t.Parallel()

	data := []byte(`{"event_id":"e-1","event_type":"draw_cached","timestamp":"2024-01-06T12:00:00Z","source_service":"lottocheck","payload":{"draw_id":1101,"via":"latest"}}`)

	line, err := formatEvent(infrastructure.NewEventSubjectMapper(), infrastructure.SubjectDrawCached, data)
	require.NoError(t, err)
	assert.Contains(t, line, "2024-01-06T12:00:00Z")
	assert.Contains(t, line, "draw_cached")
	assert.Contains(t, line, `{"draw_id":1101,"via":"latest"}`)

	_, err = formatEvent(infrastructure.NewEventSubjectMapper(), infrastructure.SubjectDrawCached, []byte("nope"))
	assert.Error(t, err)
}

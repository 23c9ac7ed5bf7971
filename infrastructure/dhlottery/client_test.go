package dhlottery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"lottocheck/domain/entities"
	"lottocheck/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const draw1100 = `{"totSellamnt":111862226000,"returnValue":"success","drwNoDate":"2023-12-30","firstWinamnt":1921609125,"drwtNo6":43,"drwtNo4":30,"firstPrzwnerCo":14,"drwtNo5":31,"bnusNo":12,"firstAccumamnt":26902527750,"drwNo":1100,"drwtNo2":26,"drwtNo3":29,"drwtNo1":17}`

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, drawID int)) (*httptest.Server, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		id, err := strconv.Atoi(r.URL.Query().Get("drwNo"))
		if err != nil {
			http.Error(w, "bad draw", http.StatusBadRequest)
			return
		}
		handler(w, id)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(srv *httptest.Server, timeout time.Duration) (*Client, *testhelpers.RecordingMetrics) {
	metrics := testhelpers.NewRecordingMetrics()
	client := NewClient(Config{
		BaseURL: srv.URL + "/common.do?method=getLottoNumber&drwNo=",
		Timeout: timeout,
	}, srv.Client(), metrics)
	return client, metrics
}

func TestClient_FetchDraw_Success(t *testing.T) {
	t.Parallel()

	srv, calls := newTestServer(t, func(w http.ResponseWriter, drawID int) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, draw1100)
	})
	client, metrics := newTestClient(srv, time.Second)

	record, err := client.FetchDraw(context.Background(), 1100)
	require.NoError(t, err)

	assert.Equal(t, 1100, record.ID())
	assert.Equal(t, []int{17, 26, 29, 30, 31, 43}, record.WinningNumbers())
	assert.Equal(t, 12, record.BonusNumber())
	assert.Equal(t, time.Date(2023, time.December, 30, 0, 0, 0, 0, kst), record.DrawDate())
	assert.Equal(t, int64(1921609125), record.FirstPrizeAmount())
	assert.Equal(t, int64(14), record.FirstPrizeWinners())
	assert.Equal(t, int64(111862226000), record.TotalSales())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, 1, metrics.Fetches[OutcomeSuccess])
}

func TestClient_FetchDraw_NotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, func(w http.ResponseWriter, drawID int) {
		fmt.Fprint(w, `{"returnValue":"fail"}`)
	})
	client, metrics := newTestClient(srv, time.Second)

	record, err := client.FetchDraw(context.Background(), 9999)
	assert.Nil(t, record)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.NotErrorIs(t, err, entities.ErrTransport)
	assert.Equal(t, 1, metrics.Fetches[OutcomeNotFound])
}

func TestClient_FetchDraw_TransportErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler func(w http.ResponseWriter, drawID int)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, drawID int) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "html maintenance page",
			handler: func(w http.ResponseWriter, drawID int) {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, "<html><body>점검중</body></html>")
			},
		},
		{
			name: "slow response",
			handler: func(w http.ResponseWriter, drawID int) {
				time.Sleep(300 * time.Millisecond)
				fmt.Fprint(w, draw1100)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newTestServer(t, tt.handler)
			client, metrics := newTestClient(srv, 50*time.Millisecond)

			record, err := client.FetchDraw(context.Background(), 1100)
			assert.Nil(t, record)
			assert.ErrorIs(t, err, entities.ErrTransport)
			assert.Equal(t, 1, metrics.Fetches[OutcomeTransport])
		})
	}
}

func TestClient_FetchDraw_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: baseURL + "/?drwNo=", Timeout: time.Second}, nil, nil)
	_, err := client.FetchDraw(context.Background(), 1)
	assert.ErrorIs(t, err, entities.ErrTransport)
}

func TestClient_FetchDraw_InvalidID(t *testing.T) {
	t.Parallel()

	srv, calls := newTestServer(t, func(w http.ResponseWriter, drawID int) {})
	client, _ := newTestClient(srv, time.Second)

	_, err := client.FetchDraw(context.Background(), 0)
	assert.ErrorIs(t, err, entities.ErrInvalidDrawID)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestParseDraw_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "json array", body: `[1,2,3]`},
		{name: "missing returnValue", body: `{"drwNo":1}`},
		{name: "unknown returnValue", body: `{"returnValue":"maybe"}`},
		{name: "missing draw number", body: `{"returnValue":"success","drwtNo1":1,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":6,"bnusNo":7}`},
		{name: "draw number mismatch", body: `{"returnValue":"success","drwNo":2,"drwtNo1":1,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":6,"bnusNo":7}`},
		{name: "missing winning number", body: `{"returnValue":"success","drwNo":1,"drwtNo1":1,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"bnusNo":7}`},
		{name: "missing bonus", body: `{"returnValue":"success","drwNo":1,"drwtNo1":1,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":6}`},
		{name: "string number", body: `{"returnValue":"success","drwNo":1,"drwtNo1":"1","drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":6,"bnusNo":7}`},
		{name: "fractional number", body: `{"returnValue":"success","drwNo":1,"drwtNo1":1.5,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":6,"bnusNo":7}`},
		{name: "out of range number", body: `{"returnValue":"success","drwNo":1,"drwtNo1":1,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":46,"bnusNo":7}`},
		{name: "duplicate winning number", body: `{"returnValue":"success","drwNo":1,"drwtNo1":1,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":5,"bnusNo":7}`},
		{name: "bonus overlaps winning numbers", body: `{"returnValue":"success","drwNo":1,"drwtNo1":1,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":6,"bnusNo":6}`},
		{name: "bad draw date", body: `{"returnValue":"success","drwNo":1,"drwNoDate":"30/12/2023","drwtNo1":1,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":6,"bnusNo":7}`},
		{name: "bad optional amount", body: `{"returnValue":"success","drwNo":1,"firstWinamnt":"lots","drwtNo1":1,"drwtNo2":2,"drwtNo3":3,"drwtNo4":4,"drwtNo5":5,"drwtNo6":6,"bnusNo":7}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			record, err := ParseDraw(1, []byte(tt.body))
			assert.Nil(t, record)
			assert.ErrorIs(t, err, entities.ErrMalformedResponse)
		})
	}
}

func TestParseDraw_OptionalFieldsAbsent(t *testing.T) {
	t.Parallel()

	body := `{"returnValue":"success","drwNo":1,"drwtNo1":10,"drwtNo2":23,"drwtNo3":29,"drwtNo4":33,"drwtNo5":37,"drwtNo6":40,"bnusNo":16}`
	record, err := ParseDraw(1, []byte(body))
	require.NoError(t, err)

	assert.False(t, record.HasDrawDate())
	assert.Zero(t, record.FirstPrizeAmount())
	assert.Zero(t, record.TotalSales())
	assert.Equal(t, []int{10, 23, 29, 33, 37, 40}, record.WinningNumbers())
}

func TestClient_RateLimit(t *testing.T) {
	t.Parallel()

	srv, calls := newTestServer(t, func(w http.ResponseWriter, drawID int) {
		fmt.Fprint(w, `{"returnValue":"fail"}`)
	})
	client := NewClient(Config{
		BaseURL:   srv.URL + "/?drwNo=",
		Timeout:   time.Second,
		RateLimit: 1,
		Burst:     1,
	}, srv.Client(), nil)

	_, err := client.FetchDraw(context.Background(), 1)
	require.ErrorIs(t, err, entities.ErrNotFound)

	// The second token is a second away; a short deadline fails fast.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.FetchDraw(ctx, 2)
	assert.ErrorIs(t, err, entities.ErrTransport)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

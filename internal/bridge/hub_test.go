package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billsum/billsum/internal/model"
	"github.com/billsum/billsum/internal/selection"
	"github.com/billsum/billsum/internal/spending"
)

const marchExport = "Transaction date,Merchant name,Billing amount\n" +
	"01/03/2024,Shop A,-10.00\n" +
	"31/03/2024,Shop B,-2.50\n" +
	"01/04/2024,Shop C,-20.00\n"

func startHub(t *testing.T, store selection.Store) (*Hub, chan error) {
	t.Helper()
	h := NewHub(store, spending.NewCalculator(nil), messages(), nil, 4)
	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background()) }()
	return h, done
}

func receive(t *testing.T, h *Hub) Response {
	t.Helper()
	select {
	case resp, ok := <-h.Responses():
		require.True(t, ok, "responses closed")
		return resp
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for response")
		return Response{}
	}
}

func waitSelected(t *testing.T, store selection.Store) {
	t.Helper()
	require.Eventually(t, func() bool {
		s := store.Load()
		return s.Start != nil && s.End != nil
	}, 5*time.Second, time.Millisecond)
}

func TestHub_ComputesWithSelectedDates(t *testing.T) {
	store := selection.NewCell()
	h, done := startHub(t, store)

	h.Dates() <- DateRequest{Role: RoleStart, Date: &YMD{Year: 2024, Month: 3, Day: 1}}
	h.Dates() <- DateRequest{Role: RoleEnd, Date: &YMD{Year: 2024, Month: 3, Day: 31}}
	waitSelected(t, store)

	h.Data() <- CSVData{Binary: []byte(marchExport)}
	resp := receive(t, h)
	assert.Equal(t, Response{Status: StatusOK, Result: "Your spending: 12.50"}, resp)

	close(h.Dates())
	close(h.Data())
	require.NoError(t, <-done)

	_, ok := <-h.Responses()
	assert.False(t, ok, "responses should be closed after Run")
}

func TestHub_RespondsBeforeDatesSet(t *testing.T) {
	h, done := startHub(t, selection.NewCell())

	h.Data() <- CSVData{Binary: []byte(marchExport)}
	assert.Equal(t, messages().NeedBothDates, receive(t, h).Result)

	close(h.Dates())
	close(h.Data())
	require.NoError(t, <-done)
}

func TestHub_IgnoresInvalidDateRequests(t *testing.T) {
	store := selection.NewCell()
	h, done := startHub(t, store)

	h.Dates() <- DateRequest{Role: RoleStart}
	h.Dates() <- DateRequest{Role: RoleStart, Date: &YMD{Year: 2024, Month: 2, Day: 30}}
	h.Dates() <- DateRequest{Role: "middle", Date: &YMD{Year: 2024, Month: 3, Day: 1}}
	h.Dates() <- DateRequest{Role: RoleEnd, Date: &YMD{Year: 2024, Month: 3, Day: 31}}
	require.Eventually(t, func() bool { return store.Load().End != nil }, 5*time.Second, time.Millisecond)

	assert.Nil(t, store.Load().Start)

	// The loop survives bad requests and still applies good ones.
	h.Dates() <- DateRequest{Role: RoleStart, Date: &YMD{Year: 2024, Month: 3, Day: 1}}
	waitSelected(t, store)
	assert.Equal(t, model.Date(2024, time.March, 1), *store.Load().Start)

	close(h.Dates())
	close(h.Data())
	require.NoError(t, <-done)
}

func TestHub_StopsOnCancel(t *testing.T) {
	h := NewHub(selection.NewCell(), spending.NewCalculator(nil), messages(), nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}
}

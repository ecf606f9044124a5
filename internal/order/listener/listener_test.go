package listener

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-checkout-service/internal/memstore"
	"github.com/fekuna/omnipos-checkout-service/internal/model"
	"github.com/fekuna/omnipos-checkout-service/internal/order"
	"github.com/fekuna/omnipos-checkout-service/internal/order/dto"
	"github.com/fekuna/omnipos-checkout-service/internal/order/usecase"
	"github.com/fekuna/omnipos-checkout-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queueReader replays queued messages, then blocks until ctx is done.
type queueReader struct {
	msgs []kafka.Message
}

func (q *queueReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(q.msgs) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := q.msgs[0]
	q.msgs = q.msgs[1:]
	return m, nil
}

func setup(t *testing.T) (order.UseCase, *memstore.Store, string) {
	t.Helper()
	store := memstore.New()
	store.PutInventory(model.Inventory{ID: "inv-1", ProductID: "P1", Quantity: 10, SalePrice: decimal.NewFromInt(50)})

	uc := usecase.NewOrderUseCase(memstore.NewOrders(store), memstore.NewInventory(store), nil, nil, usecase.Options{}, logger.NewNop())
	o, err := uc.Write(context.Background(), &dto.OrderDraft{
		Currency: "IDR",
		Items:    []model.OrderItemLine{{ProductID: "P1", ProductName: "Tea", Quantity: 3}},
	})
	require.NoError(t, err)
	return uc, store, o.ID
}

func command(t *testing.T, eventType, orderID, status string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(dto.Event[dto.StatusRequestedPayload]{
		EventID:   "e-1",
		EventType: eventType,
		Payload:   dto.StatusRequestedPayload{OrderID: orderID, Status: status},
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	return kafka.Message{Key: []byte(orderID), Value: b}
}

func TestProcessMessage(t *testing.T) {
	uc, store, id := setup(t)
	l := NewStatusListener(nil, uc, logger.NewNop())
	ctx := context.Background()

	l.processMessage(ctx, []byte("not json"))
	l.processMessage(ctx, command(t, dto.EventOrderCreated, id, "accepted").Value)
	qty, _ := store.Quantity("inv-1")
	assert.Equal(t, int64(10), qty)

	l.processMessage(ctx, command(t, dto.EventOrderStatusRequested, id, "accepted").Value)
	qty, _ = store.Quantity("inv-1")
	assert.Equal(t, int64(7), qty)

	// rejected transitions leave state alone
	l.processMessage(ctx, command(t, dto.EventOrderStatusRequested, id, "pending").Value)
	o, err := uc.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, o.Status)
}

func TestStartStopsOnCancel(t *testing.T) {
	uc, store, id := setup(t)
	reader := &queueReader{msgs: []kafka.Message{command(t, dto.EventOrderStatusRequested, id, "completed")}}
	l := NewStatusListener(reader, uc, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		qty, _ := store.Quantity("inv-1")
		return qty == 7
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal(errors.New("listener did not stop"))
	}
}

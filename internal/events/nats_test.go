package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Storefront/internal/events"
)

type mockConn struct {
	mock.Mock
}

func (m *mockConn) Publish(subject string, data []byte) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func (m *mockConn) FlushWithContext(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func sampleEvent() events.OrderPlaced {
	return events.OrderPlaced{
		OrderID:   "ORD-1714557600000",
		Total:     131998,
		Items:     []events.OrderItem{{ProductID: 1, Quantity: 2, Price: 65999}},
		OrderDate: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNatsPublisher_PublishOrderPlaced(t *testing.T) {
	hasDeadline := mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})
	payload := mock.MatchedBy(func(data []byte) bool {
		var got events.OrderPlaced
		return json.Unmarshal(data, &got) == nil && got.OrderID == "ORD-1714557600000" && got.Total == 131998
	})

	testCases := []struct {
		name     string
		subject  string
		wantSubj string
		setup    func(m *mockConn, subj string)
		wantErr  bool
	}{
		{
			name:     "published and flushed",
			subject:  "shop.orders",
			wantSubj: "shop.orders",
			setup: func(m *mockConn, subj string) {
				m.On("Publish", subj, payload).Return(nil).Once()
				m.On("FlushWithContext", hasDeadline).Return(nil).Once()
			},
		},
		{
			name:     "default subject",
			wantSubj: events.DefaultOrderPlacedSubject,
			setup: func(m *mockConn, subj string) {
				m.On("Publish", subj, payload).Return(nil).Once()
				m.On("FlushWithContext", hasDeadline).Return(nil).Once()
			},
		},
		{
			name:     "publish fails",
			wantSubj: events.DefaultOrderPlacedSubject,
			setup: func(m *mockConn, subj string) {
				m.On("Publish", subj, payload).Return(errors.New("connection closed")).Once()
			},
			wantErr: true,
		},
		{
			name:     "flush fails",
			wantSubj: events.DefaultOrderPlacedSubject,
			setup: func(m *mockConn, subj string) {
				m.On("Publish", subj, payload).Return(nil).Once()
				m.On("FlushWithContext", hasDeadline).Return(context.DeadlineExceeded).Once()
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			conn := new(mockConn)
			tc.setup(conn, tc.wantSubj)
			p := events.NewNatsPublisher(conn, tc.subject)

			// when
			err := p.PublishOrderPlaced(context.Background(), sampleEvent())

			// then
			if tc.wantErr {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			conn.AssertExpectations(t)
		})
	}
}

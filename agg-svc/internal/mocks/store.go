// Package mocks holds testify mocks for the consumer's collaborators.
package mocks

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t testingT) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StoreInterface) IncrementPopularity(ctx context.Context, menuID, quantity int) error {
	return m.Called(ctx, menuID, quantity).Error(0)
}

type MessageReader struct {
	mock.Mock
}

func NewMessageReader(t testingT) *MessageReader {
	m := &MessageReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	ret := m.Called(ctx)
	msg, _ := ret.Get(0).(kafka.Message)
	return msg, ret.Error(1)
}

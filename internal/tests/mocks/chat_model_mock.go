package mocks

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModelMock is a model.BaseChatModel with pluggable behaviour.
type ChatModelMock struct {
	GenerateFunc func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
	StreamFunc   func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error)
}

func (m *ChatModelMock) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, input, opts...)
	}
	return nil, errors.New("generate not implemented")
}

func (m *ChatModelMock) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, input, opts...)
	}
	return nil, errors.New("stream not implemented")
}

// StreamOf returns a chat model that streams chunks as assistant messages.
func StreamOf(chunks ...string) *ChatModelMock {
	return &ChatModelMock{
		StreamFunc: func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
			msgs := make([]*schema.Message, 0, len(chunks))
			for _, c := range chunks {
				msgs = append(msgs, schema.AssistantMessage(c, nil))
			}
			return schema.StreamReaderFromArray(msgs), nil
		},
	}
}

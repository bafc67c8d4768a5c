package bedrockEmbedding

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type mockInvokeAPI struct {
	OnInvokeModel func(ctx context.Context, in *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error)
}

func (m *mockInvokeAPI) InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	return m.OnInvokeModel(ctx, in)
}

func TestGetEmbedding(t *testing.T) {
	var gotModel, gotText string
	api := &mockInvokeAPI{
		OnInvokeModel: func(ctx context.Context, in *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			gotModel = *in.ModelId
			var req titanRequest
			if err := json.Unmarshal(in.Body, &req); err != nil {
				t.Fatalf("request body is not json: %v", err)
			}
			gotText = req.InputText
			return &bedrockruntime.InvokeModelOutput{Body: []byte(`{"embedding":[0.5,-0.25,1],"inputTextTokenCount":3}`)}, nil
		},
	}

	vec, err := New(api, "").GetEmbedding(context.Background(), "python aws")
	if err != nil {
		t.Fatalf("GetEmbedding failed: %v", err)
	}
	if gotModel != "amazon.titan-embed-text-v1" {
		t.Errorf("model got %q", gotModel)
	}
	if gotText != "python aws" {
		t.Errorf("inputText got %q", gotText)
	}
	if len(vec) != 3 || vec[0] != 0.5 || vec[1] != -0.25 || vec[2] != 1 {
		t.Errorf("unexpected vector %v", vec)
	}
}

func TestGetEmbedding_Errors(t *testing.T) {
	tests := []struct {
		name string
		out  *bedrockruntime.InvokeModelOutput
		err  error
	}{
		{"invoke fails", nil, errors.New("ThrottlingException")},
		{"bad body", &bedrockruntime.InvokeModelOutput{Body: []byte(`{`)}, nil},
		{"empty vector", &bedrockruntime.InvokeModelOutput{Body: []byte(`{"embedding":[]}`)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockInvokeAPI{
				OnInvokeModel: func(ctx context.Context, in *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
					return tt.out, tt.err
				},
			}
			if _, err := New(api, "custom").GetEmbedding(context.Background(), "x"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

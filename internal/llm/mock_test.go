package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ServesScriptInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(samplePlan), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		TextResponse("¡Vas muy bien!"),
	)

	first, err := mock.Generate(context.Background(), planRequest())
	if err != nil {
		t.Fatal(err)
	}
	if string(first.Content) != samplePlan || first.Usage.TotalTokens != 15 || first.StopReason != StopEnd {
		t.Fatalf("first = %+v", first)
	}

	second, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "¿voy bien?"}}})
	if err != nil {
		t.Fatal(err)
	}
	if second.Text() != "¡Vas muy bien!" {
		t.Fatalf("text = %q", second.Text())
	}

	if mock.CallCount() != 2 || mock.Calls[0].Schema != planSchema || mock.Calls[1].Messages[0].Content != "¿voy bien?" {
		t.Fatalf("calls = %+v", mock.Calls)
	}
}

func TestMockProvider_Exhausted(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})

	var unavailable *ErrProviderUnavailable
	if !errors.As(err, &unavailable) || !errors.Is(err, errScriptExhausted) {
		t.Fatalf("err = %v", err)
	}

	mock.Push(TextResponse("ahora sí"))
	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil || resp.Text() != "ahora sí" {
		t.Fatalf("resp %v err %v", resp, err)
	}
}

func TestMockProvider_ScriptedErrorAndCanceledContext(t *testing.T) {
	quota := errors.New("quota exceeded")
	mock := NewMockProvider(MockResponse{Err: quota}, TextResponse("sin usar"))

	if _, err := mock.Generate(context.Background(), Request{}); !errors.Is(err, quota) {
		t.Fatalf("err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := mock.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("calls = %d", mock.CallCount())
	}

	// The canceled call did not consume the script.
	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil || resp.Text() != "sin usar" {
		t.Fatalf("resp %v err %v", resp, err)
	}
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("untagged = %q", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, PurposePlanChat)); p != "plan-gen-chat" {
		t.Fatalf("tagged = %q", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "")); p != PurposeUnknown {
		t.Fatalf("empty = %q", p)
	}
}

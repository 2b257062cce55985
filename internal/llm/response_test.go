package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStripFence(t *testing.T) {
	tests := []struct{ in, want string }{
		{samplePlan, samplePlan},
		{"  " + samplePlan + "\n", samplePlan},
		{"```json\n" + samplePlan + "\n```", samplePlan},
		{"```\n" + samplePlan + "```", samplePlan},
		{"Aquí tienes:\n```json\n{}\n```", "Aquí tienes:\n```json\n{}\n```"},
	}
	for _, tt := range tests {
		if got := stripFence(tt.in); got != tt.want {
			t.Errorf("stripFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFinish(t *testing.T) {
	t.Run("text is quoted", func(t *testing.T) {
		resp, err := finish(Request{}, reply{text: `Usa "GROUP BY"`, usage: Usage{InputTokens: 2, OutputTokens: 3}, stop: StopEnd})
		if err != nil {
			t.Fatal(err)
		}
		if !json.Valid(resp.Content) || resp.Text() != `Usa "GROUP BY"` {
			t.Errorf("content = %s", resp.Content)
		}
		if resp.Usage.TotalTokens != 5 {
			t.Errorf("total = %d", resp.Usage.TotalTokens)
		}
	})

	t.Run("truncated text is still text", func(t *testing.T) {
		resp, err := finish(Request{}, reply{text: "Primero aprende", stop: StopMaxTokens})
		if err != nil || resp.StopReason != StopMaxTokens {
			t.Fatalf("resp %+v err %v", resp, err)
		}
	})

	t.Run("complete plan despite max tokens", func(t *testing.T) {
		if _, err := finish(planRequest(), reply{text: samplePlan, stop: StopMaxTokens}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("cut plan", func(t *testing.T) {
		_, err := finish(planRequest(), reply{text: samplePlan[:30], stop: StopMaxTokens})
		var maxTok *ErrMaxTokensExceeded
		if !errors.As(err, &maxTok) || string(maxTok.Content) != samplePlan[:30] {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{`"hola"`, "hola"},
		{`hola sin comillas`, "hola sin comillas"},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		r := &Response{Content: json.RawMessage(tt.content)}
		if got := r.Text(); got != tt.want {
			t.Errorf("Text(%s) = %q, want %q", tt.content, got, tt.want)
		}
	}
	var nilResp *Response
	if nilResp.Text() != "" {
		t.Error("nil response should have no text")
	}
}

package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerText(t *testing.T) {
	candidate := func(reason genai.FinishReason, parts ...genai.Part) *genai.Candidate {
		return &genai.Candidate{FinishReason: reason, Content: &genai.Content{Parts: parts}}
	}

	tests := []struct {
		name      string
		resp      *genai.GenerateContentResponse
		want      string
		wantErr   string
		isBlocked bool
	}{
		{
			name: "joins text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.FinishReasonStop, genai.Text(`{"isCV": true,`), genai.Text(` "isTranscript": false, "GPA": "0"}`)),
			}},
			want: `{"isCV": true, "isTranscript": false, "GPA": "0"}`,
		},
		{name: "nil response", resp: nil, wantErr: "empty response"},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: "no candidates"},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
			},
			isBlocked: true,
		},
		{
			name: "safety stop",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.FinishReasonSafety),
			}},
			isBlocked: true,
		},
		{
			name: "no text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.FinishReasonStop, genai.Blob{MIMEType: "image/png"}),
			}},
			wantErr: "no text parts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := answerText(tt.resp)
			if tt.isBlocked {
				require.ErrorIs(t, err, ErrBlocked)
				return
			}
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

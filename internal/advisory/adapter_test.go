package advisory

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"lumina/internal/platform/openlibrary"
)

func TestMain(m *testing.M) {
	// genai links in opencensus, whose view worker starts in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestAdapter(t *testing.T) (*Adapter, *MockGenerator, *observer.ObservedLogs) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	core, logs := observer.New(zap.DebugLevel)
	return New(gen, Config{Timeout: time.Second}, zap.New(core)), gen, logs
}

func TestInsight(t *testing.T) {
	book := BookInfo{Title: "ความสุขของกะทิ", Author: "งามพรรณ เวชชาชีวะ", Category: "วรรณกรรมเยาวชน"}

	t.Run("success", func(t *testing.T) {
		a, gen, _ := newTestAdapter(t)
		gen.EXPECT().
			GenerateContent(gomock.Any(), DefaultTextModel, gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				require.Len(t, contents, 1)
				assert.Contains(t, contents[0].Parts[0].Text, "ความสุขของกะทิ")
				require.NotNil(t, cfg.ThinkingConfig)
				assert.Equal(t, int32(0), *cfg.ThinkingConfig.ThinkingBudget)
				return textResponse("  หนังสือดี  "), nil
			})

		assert.Equal(t, Advice{Value: "หนังสือดี"}, a.Insight(context.Background(), book))
	})

	t.Run("empty text", func(t *testing.T) {
		a, gen, _ := newTestAdapter(t)
		gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(textResponse(""), nil)

		assert.Equal(t, Advice{Value: EmptyInsight, Degraded: true}, a.Insight(context.Background(), book))
	})

	t.Run("error", func(t *testing.T) {
		a, gen, logs := newTestAdapter(t)
		gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

		assert.Equal(t, Advice{Value: FallbackInsight, Degraded: true}, a.Insight(context.Background(), book))
		entries := logs.FilterMessage("advisory fallback").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "insight", entries[0].ContextMap()["op"])
	})

	t.Run("nil response", func(t *testing.T) {
		a, gen, _ := newTestAdapter(t)
		gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		assert.True(t, a.Insight(context.Background(), book).Degraded)
	})
}

func TestSuggestCategory(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
		want Advice
	}{
		{"json", textResponse(`{"category":"วรรณกรรมแปล"}`), nil, Advice{Value: "วรรณกรรมแปล"}},
		{"network error", nil, errors.New("dial tcp: i/o timeout"), Advice{Value: FallbackCategory, Degraded: true}},
		{"not json", textResponse("วรรณกรรมแปล"), nil, Advice{Value: FallbackCategory, Degraded: true}},
		{"blank category", textResponse(`{"category":"  "}`), nil, Advice{Value: FallbackCategory, Degraded: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, gen, _ := newTestAdapter(t)
			gen.EXPECT().
				GenerateContent(gomock.Any(), DefaultTextModel, gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					assert.Equal(t, "application/json", cfg.ResponseMIMEType)
					assert.Equal(t, genai.TypeObject, cfg.ResponseSchema.Type)
					return tt.resp, tt.err
				})

			assert.Equal(t, tt.want, a.SuggestCategory(context.Background(), "เจ้าชายน้อย", "แซ็งเตกซูว์เปรี"))
		})
	}
}

func TestGenerateCover(t *testing.T) {
	t.Run("first inline image", func(t *testing.T) {
		a, gen, _ := newTestAdapter(t)
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte("img")}},
				{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("other")}},
			}},
		}}}
		gen.EXPECT().
			GenerateContent(gomock.Any(), DefaultImageModel, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				assert.Equal(t, "3:4", cfg.ImageConfig.AspectRatio)
				assert.Contains(t, contents[0].Parts[0].Text, "General")
				return resp, nil
			})

		cover := a.GenerateCover(context.Background(), "Dune", "")
		require.NotNil(t, cover.Image)
		assert.Equal(t, "data:image/jpeg;base64,aW1n", *cover.Image)
		assert.False(t, cover.Degraded)
	})

	t.Run("no image", func(t *testing.T) {
		a, gen, _ := newTestAdapter(t)
		gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(textResponse("sorry"), nil)

		assert.Equal(t, Cover{Degraded: true}, a.GenerateCover(context.Background(), "Dune", "Sci-Fi"))
	})

	t.Run("error", func(t *testing.T) {
		a, gen, _ := newTestAdapter(t)
		gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)

		assert.Nil(t, a.GenerateCover(context.Background(), "Dune", "Sci-Fi").Image)
	})
}

func TestDegradedMode(t *testing.T) {
	a, err := NewGemini(context.Background(), Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, a.Enabled())

	assert.Equal(t, Advice{Value: FallbackInsight, Degraded: true}, a.Insight(context.Background(), BookInfo{Title: "x"}))
	assert.Equal(t, Advice{Value: FallbackCategory, Degraded: true}, a.SuggestCategory(context.Background(), "x", "y"))
	assert.Equal(t, Cover{Degraded: true}, a.GenerateCover(context.Background(), "x", "y"))
	assert.Equal(t, Prefill{Degraded: true}, a.PrefillISBN(context.Background(), "9780441013593"))
}

func TestTimeoutIsApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := NewMockGenerator(ctrl)
	a := New(gen, Config{Timeout: 20 * time.Millisecond}, nil)

	gen.EXPECT().GenerateContent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	assert.Equal(t, FallbackCategory, a.SuggestCategory(context.Background(), "x", "y").Value)
}

type stubLookup struct {
	edition openlibrary.Edition
	err     error
}

func (s stubLookup) LookupISBN(context.Context, string) (openlibrary.Edition, error) {
	return s.edition, s.err
}

func TestPrefillISBN(t *testing.T) {
	a := New(nil, Config{}, nil)

	p := a.WithISBNLookup(stubLookup{edition: openlibrary.Edition{Title: "Dune"}}).PrefillISBN(context.Background(), "9780441013593")
	require.NotNil(t, p.Edition)
	assert.Equal(t, "Dune", p.Edition.Title)
	assert.False(t, p.Degraded)

	p = a.WithISBNLookup(stubLookup{err: openlibrary.ErrNotFound}).PrefillISBN(context.Background(), "1")
	assert.Equal(t, Prefill{}, p)

	p = a.WithISBNLookup(stubLookup{err: errors.New("unexpected status code: " + http.StatusText(502))}).PrefillISBN(context.Background(), "1")
	assert.Equal(t, Prefill{Degraded: true}, p)
}

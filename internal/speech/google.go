package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"

	cloudspeech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"glimpse/internal/audio"
)

// recognizeClient - часть клиента Cloud Speech, которой мы пользуемся.
type recognizeClient interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// GoogleRecognizer реализует Recognizer через Google Speech-to-Text.
type GoogleRecognizer struct {
	mu     sync.Mutex
	client recognizeClient
}

// NewGoogle создаёт клиента Google Speech-to-Text.
// Без credentialsFile используются Application Default Credentials.
func NewGoogle(ctx context.Context, credentialsFile string) (*GoogleRecognizer, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := cloudspeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Google Speech: %w", err)
	}

	return &GoogleRecognizer{client: client}, nil
}

// Name возвращает название движка.
func (g *GoogleRecognizer) Name() string {
	return "google"
}

// Transcribe отправляет клип целиком в Recognize.
func (g *GoogleRecognizer) Transcribe(ctx context.Context, clip *audio.PCM, lang string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return Result{}, fmt.Errorf("распознаватель закрыт")
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   int32(clip.SampleRate),
			AudioChannelCount: int32(clip.Channels),
			LanguageCode:      lang,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: clip.Bytes()},
		},
	}

	resp, err := g.client.Recognize(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("ошибка запроса к Google Speech: %w", err)
	}

	// Берём лучшую альтернативу каждого отрезка
	var parts []string
	for _, r := range resp.GetResults() {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}

	return TextResult(strings.Join(parts, " ")), nil
}

// Close закрывает клиента.
func (g *GoogleRecognizer) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		g.client.Close()
		g.client = nil
	}
}

package speech

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"

	"glimpse/internal/audio"
)

type fakeClient struct {
	resp   *speechpb.RecognizeResponse
	err    error
	req    *speechpb.RecognizeRequest
	closed int
}

func (c *fakeClient) Recognize(_ context.Context, req *speechpb.RecognizeRequest, _ ...gax.CallOption) (*speechpb.RecognizeResponse, error) {
	c.req = req
	return c.resp, c.err
}

func (c *fakeClient) Close() error {
	c.closed++
	return nil
}

func alt(text string) *speechpb.SpeechRecognitionResult {
	return &speechpb.SpeechRecognitionResult{
		Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text, Confidence: 0.9}},
	}
}

func TestGoogleTranscribe(t *testing.T) {
	client := &fakeClient{resp: &speechpb.RecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{alt("find the"), alt(" cup please "), {}},
	}}
	g := &GoogleRecognizer{client: client}
	clip := &audio.PCM{SampleRate: 44100, Channels: 2, Samples: []int16{1, -1}}

	res, err := g.Transcribe(context.Background(), clip, "en-US")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if !res.Understood || res.Text != "find the cup please" {
		t.Errorf("result = %+v", res)
	}

	cfg := client.req.GetConfig()
	if cfg.GetEncoding() != speechpb.RecognitionConfig_LINEAR16 {
		t.Errorf("encoding = %v", cfg.GetEncoding())
	}
	if cfg.GetSampleRateHertz() != 44100 || cfg.GetAudioChannelCount() != 2 || cfg.GetLanguageCode() != "en-US" {
		t.Errorf("config = %v", cfg)
	}
	if got := client.req.GetAudio().GetContent(); string(got) != "\x01\x00\xff\xff" {
		t.Errorf("content = %x", got)
	}
}

func TestGoogleNotUnderstood(t *testing.T) {
	g := &GoogleRecognizer{client: &fakeClient{resp: &speechpb.RecognizeResponse{}}}

	res, err := g.Transcribe(context.Background(), &audio.PCM{SampleRate: 16000, Channels: 1}, "en-US")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if res.Understood || res.Text != "" {
		t.Errorf("result = %+v, want not understood", res)
	}
}

func TestGoogleRequestError(t *testing.T) {
	boom := errors.New("unavailable")
	g := &GoogleRecognizer{client: &fakeClient{err: boom}}

	_, err := g.Transcribe(context.Background(), &audio.PCM{SampleRate: 16000, Channels: 1}, "en-US")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestGoogleClose(t *testing.T) {
	client := &fakeClient{}
	g := &GoogleRecognizer{client: client}
	g.Close()
	g.Close()

	if client.closed != 1 {
		t.Errorf("closed %d times", client.closed)
	}
	if _, err := g.Transcribe(context.Background(), &audio.PCM{}, "en"); err == nil {
		t.Error("closed recognizer accepted a request")
	}
}

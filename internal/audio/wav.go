package audio

import (
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM - код формата PCM в заголовке WAV.
const wavFormatPCM = 1

// WriteWAV сохраняет отрезок как 32-битный PCM WAV без потери точности записи.
func WriteWAV(path string, clip *Clip) error {
	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(float64(s) * math.MaxInt32)
	}

	return writeInts(path, clip.SampleRate, clip.Channels, 32, data)
}

// ConvertPCM16 перекодирует WAV файл src в 16-битный PCM и сохраняет в dst.
func ConvertPCM16(src, dst string) error {
	buf, bitDepth, err := readInts(src)
	if err != nil {
		return err
	}

	shift := bitDepth - 16
	data := make([]int, len(buf.Data))
	for i, v := range buf.Data {
		if shift > 0 {
			v >>= shift
		} else if shift < 0 {
			v <<= -shift
		}
		data[i] = v
	}

	return writeInts(dst, buf.Format.SampleRate, buf.Format.NumChannels, 16, data)
}

// LoadPCM16 читает 16-битный PCM WAV.
func LoadPCM16(path string) (*PCM, error) {
	buf, bitDepth, err := readInts(path)
	if err != nil {
		return nil, err
	}
	if bitDepth != 16 {
		return nil, fmt.Errorf("%s: ожидался 16-битный PCM, получено %d бит", path, bitDepth)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}

	return &PCM{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		Samples:    samples,
	}, nil
}

func writeInts(path string, sampleRate, channels, bitDepth int, data []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("не удалось создать %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("ошибка записи %s: %w", path, err)
	}
	return nil
}

func readInts(path string) (*goaudio.IntBuffer, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("не удалось открыть %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: некорректный WAV файл", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка чтения %s: %w", path, err)
	}
	return buf, int(dec.BitDepth), nil
}

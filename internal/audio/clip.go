package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Clip - записанный отрезок: float32 сэмплы [-1, 1], каналы чередуются.
type Clip struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Duration возвращает длительность отрезка.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	frames := len(c.Samples) / c.Channels
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// PCM - 16-битный PCM, каналы чередуются.
type PCM struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Mono сводит каналы в один усреднением.
func (p *PCM) Mono() []int16 {
	if p.Channels <= 1 {
		return p.Samples
	}
	frames := len(p.Samples) / p.Channels
	out := make([]int16, frames)
	for i := range frames {
		var sum int32
		for c := 0; c < p.Channels; c++ {
			sum += int32(p.Samples[i*p.Channels+c])
		}
		out[i] = int16(sum / int32(p.Channels))
	}
	return out
}

// Bytes возвращает сэмплы как little-endian байты (LINEAR16).
func (p *PCM) Bytes() []byte {
	return Bytes16(p.Samples)
}

// Bytes16 кодирует int16 сэмплы в little-endian байты.
func Bytes16(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// Float32 переводит int16 сэмплы в диапазон [-1, 1].
func Float32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768
	}
	return out
}

// Resample16 меняет частоту дискретизации моно сигнала линейной интерполяцией.
// При равных частотах возвращает исходный срез.
func Resample16(samples []int16, srcRate, dstRate int) []int16 {
	if srcRate <= 0 || dstRate <= 0 || srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	n := int(int64(len(samples)) * int64(dstRate) / int64(srcRate))
	out := make([]int16, n)
	ratio := float64(srcRate) / float64(dstRate)

	for i := range n {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := pos - float64(idx)

		s0 := samples[idx]
		s1 := s0
		if idx+1 < len(samples) {
			s1 = samples[idx+1]
		}
		out[i] = int16(float64(s0)*(1-frac) + float64(s1)*frac)
	}
	return out
}

// Downmix сворачивает чередующиеся каналы в моно.
func Downmix(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}
	out := make([]float32, len(samples)/channels)
	for i := range out {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// Level возвращает громкость последних 1024 сэмплов в диапазоне [0, 1].
// Обычная речь даёт RMS около 0.1-0.3, поэтому значение усилено втрое.
func Level(samples []float32) float32 {
	if len(samples) > 1024 {
		samples = samples[len(samples)-1024:]
	}
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	level := float32(math.Sqrt(sum/float64(len(samples)))) * 3
	return min(level, 1)
}

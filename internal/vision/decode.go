package vision

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// DecodeOptions - пороги постобработки выхода сети.
type DecodeOptions struct {
	ScoreThreshold float32 // Минимальная уверенность детекции
	NMSThreshold   float32 // IoU, выше которого пересекающиеся рамки подавляются

	// ScaledScores - оценки классов Darknet уже умножены на objectness
	// (так их отдаёт слой Region в OpenCV).
	ScaledScores bool
}

// Geometry задаёт перевод координат выхода сети в пиксели кадра.
type Geometry struct {
	Frame image.Point // Размер исходного кадра
	Input image.Point // Размер входа сети; нулевой, если координаты нормализованы
}

func (g Geometry) scale() (float32, float32) {
	if g.Input.X == 0 || g.Input.Y == 0 {
		return float32(g.Frame.X), float32(g.Frame.Y)
	}
	return float32(g.Frame.X) / float32(g.Input.X), float32(g.Frame.Y) / float32(g.Input.Y)
}

type candidate struct {
	class int
	score float32
	box   image.Rectangle
}

// DecodeYOLOv8 разбирает выход YOLOv8 формы [1, 4+N, anchors]:
// по каналам идут cx, cy, w, h (в пикселях входа сети) и N оценок классов.
func DecodeYOLOv8(out []float32, anchors int, names []string, geo Geometry, opts DecodeOptions) ([]Detection, error) {
	if anchors <= 0 || len(out)%anchors != 0 {
		return nil, fmt.Errorf("неожиданный размер выхода YOLOv8: %d значений на %d якорей", len(out), anchors)
	}
	channels := len(out) / anchors
	classes := channels - 4
	if classes <= 0 {
		return nil, fmt.Errorf("в выходе YOLOv8 нет оценок классов: %d каналов", channels)
	}

	sx, sy := geo.scale()
	at := func(c, i int) float32 { return out[c*anchors+i] }

	var cands []candidate
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < classes; c++ {
			if s := at(4+c, i); s > bestScore {
				best, bestScore = c, s
			}
		}
		if best < 0 || bestScore < opts.ScoreThreshold {
			continue
		}
		cands = append(cands, candidate{
			class: best,
			score: bestScore,
			box:   centerBox(at(0, i), at(1, i), at(2, i), at(3, i), sx, sy, geo.Frame),
		})
	}

	return toDetections(nms(cands, opts.NMSThreshold), names), nil
}

// DecodeDarknet разбирает строки выходного слоя YOLO из Darknet:
// cx, cy, w, h (нормализованные 0-1), objectness и оценки классов.
// Уверенность детекции - произведение objectness и оценки класса,
// если opts.ScaledScores не говорит, что оно уже посчитано.
func DecodeDarknet(layers [][]float32, classes int, names []string, geo Geometry, opts DecodeOptions) ([]Detection, error) {
	if classes <= 0 {
		return nil, fmt.Errorf("некорректное число классов: %d", classes)
	}
	stride := 5 + classes
	sx, sy := geo.scale()

	var cands []candidate
	for _, rows := range layers {
		if len(rows)%stride != 0 {
			return nil, fmt.Errorf("размер слоя %d не кратен %d", len(rows), stride)
		}
		for off := 0; off < len(rows); off += stride {
			row := rows[off : off+stride]
			objectness := row[4]
			if objectness <= 0 {
				continue
			}
			best, bestScore := -1, float32(0)
			for c, s := range row[5:] {
				if s > bestScore {
					best, bestScore = c, s
				}
			}
			score := bestScore
			if !opts.ScaledScores {
				score *= objectness
			}
			if best < 0 || score < opts.ScoreThreshold {
				continue
			}
			cands = append(cands, candidate{
				class: best,
				score: score,
				box:   centerBox(row[0], row[1], row[2], row[3], sx, sy, geo.Frame),
			})
		}
	}

	return toDetections(nms(cands, opts.NMSThreshold), names), nil
}

func centerBox(cx, cy, w, h, sx, sy float32, frame image.Point) image.Rectangle {
	px := func(v, s float32) int { return int(math.Round(float64(v * s))) }
	r := image.Rect(px(cx-w/2, sx), px(cy-h/2, sy), px(cx+w/2, sx), px(cy+h/2, sy))
	if frame.X > 0 && frame.Y > 0 {
		r = r.Intersect(image.Rectangle{Max: frame})
	}
	return r
}

// nms - жадное подавление немаксимумов отдельно для каждого класса.
func nms(cands []candidate, threshold float32) []candidate {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	kept := make([]candidate, 0, len(cands))
	for _, c := range cands {
		suppressed := false
		for _, k := range kept {
			if k.class == c.class && iou(k.box, c.box) > threshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, c)
		}
	}
	return kept
}

func iou(a, b image.Rectangle) float32 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	ia := area(inter)
	union := area(a) + area(b) - ia
	if union <= 0 {
		return 0
	}
	return float32(ia) / float32(union)
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}

func toDetections(cands []candidate, names []string) []Detection {
	dets := make([]Detection, 0, len(cands))
	for _, c := range cands {
		name := fmt.Sprintf("class%d", c.class)
		if c.class < len(names) {
			name = names[c.class]
		}
		dets = append(dets, Detection{
			Class:      name,
			Confidence: float64(c.score),
			Box:        c.box,
		})
	}
	return dets
}

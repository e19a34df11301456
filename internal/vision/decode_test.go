package vision

import (
	"image"
	"testing"
)

// yolov8Output собирает выход формы [4+classes, anchors] из описаний якорей.
func yolov8Output(classes int, anchors [][]float32) []float32 {
	n := len(anchors)
	out := make([]float32, (4+classes)*n)
	for i, a := range anchors {
		for c, v := range a {
			out[c*n+i] = v
		}
	}
	return out
}

func TestDecodeYOLOv8(t *testing.T) {
	names := []string{"person", "cup"}
	out := yolov8Output(2, [][]float32{
		{320, 320, 64, 64, 0.1, 0.9},  // cup в центре
		{322, 322, 64, 64, 0.1, 0.8},  // дубликат, подавляется NMS
		{100, 100, 20, 40, 0.7, 0.05}, // person
		{500, 500, 10, 10, 0.1, 0.1},  // ниже порога
	})

	geo := Geometry{Frame: image.Pt(1280, 720), Input: image.Pt(640, 640)}
	dets, err := DecodeYOLOv8(out, 4, names, geo, DecodeOptions{ScoreThreshold: 0.25, NMSThreshold: 0.45})
	if err != nil {
		t.Fatalf("DecodeYOLOv8: %v", err)
	}
	if len(dets) != 2 {
		t.Fatalf("got %d detections, want 2: %+v", len(dets), dets)
	}

	cup := dets[0]
	if cup.Class != "cup" {
		t.Fatalf("first detection: got %q, want cup", cup.Class)
	}
	if cup.Confidence < 0.89 || cup.Confidence > 0.91 {
		t.Errorf("confidence: got %f, want 0.9", cup.Confidence)
	}
	// cx=320 -> 640 px по X (масштаб 2), cy=320 -> 360 px по Y (масштаб 1.125)
	want := image.Rect(576, 324, 704, 396)
	if cup.Box != want {
		t.Errorf("box: got %v, want %v", cup.Box, want)
	}

	if dets[1].Class != "person" {
		t.Errorf("second detection: got %q, want person", dets[1].Class)
	}
}

func TestDecodeYOLOv8_BadShape(t *testing.T) {
	if _, err := DecodeYOLOv8(make([]float32, 10), 3, nil, Geometry{}, DecodeOptions{}); err == nil {
		t.Fatal("expected error for size not divisible by anchors")
	}
	if _, err := DecodeYOLOv8(make([]float32, 8), 2, nil, Geometry{}, DecodeOptions{}); err == nil {
		t.Fatal("expected error for output without class scores")
	}
}

func TestDecodeDarknet(t *testing.T) {
	names := []string{"person", "cup"}
	layer := []float32{
		0.5, 0.5, 0.1, 0.2, 0.9, 0.1, 0.8, // cup: 0.9*0.8 = 0.72
		0.5, 0.5, 0.1, 0.2, 0.3, 0.1, 0.9, // 0.27 - ниже порога 0.5
		0.2, 0.2, 0.1, 0.1, 0.0, 1.0, 0.0, // нулевой objectness
	}

	geo := Geometry{Frame: image.Pt(1000, 500)}
	dets, err := DecodeDarknet([][]float32{layer}, 2, names, geo, DecodeOptions{ScoreThreshold: 0.5, NMSThreshold: 0.4})
	if err != nil {
		t.Fatalf("DecodeDarknet: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1: %+v", len(dets), dets)
	}
	d := dets[0]
	if d.Class != "cup" {
		t.Errorf("class: got %q, want cup", d.Class)
	}
	if d.Confidence < 0.71 || d.Confidence > 0.73 {
		t.Errorf("confidence: got %f, want 0.72", d.Confidence)
	}
	if want := image.Rect(450, 200, 550, 300); d.Box != want {
		t.Errorf("box: got %v, want %v", d.Box, want)
	}
}

func TestDecodeDarknet_ScaledScores(t *testing.T) {
	layer := []float32{0.5, 0.5, 0.1, 0.2, 0.9, 0.0, 0.6}

	dets, err := DecodeDarknet([][]float32{layer}, 2, []string{"person", "cup"}, Geometry{Frame: image.Pt(100, 100)},
		DecodeOptions{ScoreThreshold: 0.5, NMSThreshold: 0.4, ScaledScores: true})
	if err != nil {
		t.Fatalf("DecodeDarknet: %v", err)
	}
	// 0.6 берётся как есть, без умножения на 0.9
	if len(dets) != 1 || dets[0].Confidence < 0.59 || dets[0].Confidence > 0.61 {
		t.Fatalf("got %+v, want one cup at 0.60", dets)
	}
}

func TestDecodeDarknet_BadStride(t *testing.T) {
	if _, err := DecodeDarknet([][]float32{make([]float32, 8)}, 2, nil, Geometry{}, DecodeOptions{}); err == nil {
		t.Fatal("expected error for layer size not divisible by stride")
	}
}

func TestNMS_KeepsDifferentClasses(t *testing.T) {
	box := image.Rect(0, 0, 100, 100)
	kept := nms([]candidate{
		{class: 0, score: 0.9, box: box},
		{class: 1, score: 0.8, box: box},
		{class: 0, score: 0.7, box: box},
	}, 0.5)
	if len(kept) != 2 {
		t.Fatalf("got %d boxes, want 2", len(kept))
	}
	if kept[0].score != 0.9 || kept[1].class != 1 {
		t.Errorf("unexpected kept boxes: %+v", kept)
	}
}

func TestCenterBox_Clamped(t *testing.T) {
	got := centerBox(0.95, 0.5, 0.2, 0.2, 100, 100, image.Pt(100, 100))
	if want := image.Rect(85, 40, 100, 60); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIOU(t *testing.T) {
	a := image.Rect(0, 0, 10, 10)
	b := image.Rect(5, 0, 15, 10)
	got := iou(a, b)
	// пересечение 50, объединение 150
	if got < 0.33 || got > 0.34 {
		t.Errorf("iou = %f, want ~0.333", got)
	}
	if iou(a, image.Rect(20, 20, 30, 30)) != 0 {
		t.Error("disjoint boxes must have zero IoU")
	}
}

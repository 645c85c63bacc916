package file

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roelfdiedericks/devkit/internal/types"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 5), uint8(y * 10), 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestInspectText(t *testing.T) {
	got := Inspect([]byte("hello\nworld\n"))
	want := Info{
		MimeType:  "text/plain; charset=utf-8",
		Extension: ".txt",
		Size:      12,
		SizeHuman: "12 B",
		MD5:       "0f723ae7f9bf07744445e93ac5595156",
		SHA256:    "4a1e67f2fe1d1cc7b31d0ca2ec441da4778203a036a77da10344c85e24ff0f92",
		Text:      true,
		Lines:     2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inspect (-want +got):\n%s", diff)
	}
}

func TestInspectImage(t *testing.T) {
	info := Inspect(testPNG(t, 40, 20))
	if info.MimeType != "image/png" || info.Extension != ".png" || info.Width != 40 || info.Height != 20 || info.Text {
		t.Errorf("info = %+v", info)
	}
}

func TestInfoToolSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tool := NewInfoTool()

	res, err := tool.Execute(context.Background(), json.RawMessage(fmt.Sprintf(`{"path":%q}`, path)))
	if err != nil {
		t.Fatal(err)
	}
	if info := res.Fields["file"].(Info); info.Name != "notes.txt" || info.Lines != 2 {
		t.Errorf("path info = %+v", info)
	}

	data := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 8, 8))
	res, err = tool.Execute(context.Background(), json.RawMessage(fmt.Sprintf(`{"data":%q}`, data)))
	if err != nil {
		t.Fatal(err)
	}
	if info := res.Fields["file"].(Info); info.MimeType != "image/png" || info.Width != 8 {
		t.Errorf("data info = %+v", info)
	}

	for _, in := range []string{
		`{}`,
		fmt.Sprintf(`{"path":%q,"data":"aGk="}`, path),
		`{"data":"***"}`,
		fmt.Sprintf(`{"path":%q}`, filepath.Join(dir, "missing")),
		fmt.Sprintf(`{"path":%q}`, dir),
	} {
		if _, err := tool.Execute(context.Background(), json.RawMessage(in)); !types.IsInputError(err) {
			t.Errorf("%s: expected InputError, got %v", in, err)
		}
	}
}

// pngHeader returns a PNG that stops after an IHDR declaring w x h pixels.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolour
	chunk := append([]byte("IHDR"), ihdr...)

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecodeImageRejectsHugeDimensions(t *testing.T) {
	if _, _, err := decodeImage(pngHeader(50000, 50000)); !types.IsInputError(err) {
		t.Errorf("expected InputError, got %v", err)
	}

	input, _ := json.Marshal(map[string]any{"data": base64.StdEncoding.EncodeToString(pngHeader(50000, 50000)), "width": 10})
	if _, err := NewResizeTool().Execute(context.Background(), input); !types.IsInputError(err) {
		t.Errorf("resize: expected InputError, got %v", err)
	}
}

func TestResizeImage(t *testing.T) {
	img, _, err := decodeImage(testPNG(t, 40, 20))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name          string
		width, height int
		fit           bool
		wantW, wantH  int
	}{
		{"width only", 20, 0, false, 20, 10},
		{"height only", 0, 40, false, 80, 40},
		{"exact", 10, 10, false, 10, 10},
		{"fit", 10, 10, true, 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ResizeImage(img, tt.width, tt.height, tt.fit, "png", DefaultQuality)
			if err != nil {
				t.Fatal(err)
			}
			cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH || out.Width != tt.wantW || out.Height != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}

	for _, c := range []struct {
		w, h int
		fit  bool
	}{{0, 0, false}, {-1, 10, false}, {MaxDimension + 1, 0, false}, {10, 0, true}} {
		if _, err := ResizeImage(img, c.w, c.h, c.fit, "png", DefaultQuality); !types.IsInputError(err) {
			t.Errorf("%+v: expected InputError, got %v", c, err)
		}
	}
}

func TestResizeTool(t *testing.T) {
	data := base64.StdEncoding.EncodeToString(testPNG(t, 40, 20))
	tool := NewResizeTool()

	res, err := tool.Execute(context.Background(), json.RawMessage(fmt.Sprintf(`{"data":%q,"width":20,"format":"JPG","quality":70}`, data)))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Content) != 2 || res.Content[1].Type != "image" || res.Content[1].MimeType != "image/jpeg" {
		t.Fatalf("content = %+v", res.Content)
	}
	raw, err := base64.StdEncoding.DecodeString(res.Content[1].Data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jpeg.DecodeConfig(bytes.NewReader(raw)); err != nil {
		t.Errorf("output is not a JPEG: %v", err)
	}

	res, err = tool.Execute(context.Background(), json.RawMessage(fmt.Sprintf(`{"data":%q,"height":10}`, data)))
	if err != nil {
		t.Fatal(err)
	}
	if res.Fields["mimeType"] != "image/png" || res.Fields["width"] != 20 {
		t.Errorf("default format fields = %v", res.Fields)
	}

	text := base64.StdEncoding.EncodeToString([]byte("just text"))
	for _, in := range []string{
		fmt.Sprintf(`{"data":%q,"width":10}`, text),
		fmt.Sprintf(`{"data":%q,"width":10,"format":"gif"}`, data),
		fmt.Sprintf(`{"data":%q,"width":10,"quality":101}`, data),
	} {
		if _, err := tool.Execute(context.Background(), json.RawMessage(in)); !types.IsInputError(err) {
			t.Errorf("%s: expected InputError, got %v", in, err)
		}
	}
}

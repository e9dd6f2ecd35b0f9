package widget

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"slices"
	"strconv"
	"strings"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"immo-client/internal/model"
	"immo-client/internal/util"
)

// DefaultPreviewSize bounds the longest side of a preview thumbnail.
const DefaultPreviewSize = 160

// Upload is one accepted file. Preview holds a JPEG thumbnail for
// decodable images and is nil otherwise.
type Upload struct {
	File    model.MediaFile
	Preview []byte
}

// FileUpload collects media files against a count limit, a size limit and
// an accept list.
type FileUpload struct {
	base[[]model.MediaFile]
	accepted    []string
	maxSize     int64
	maxFiles    int
	previewSize int
	items       []Upload
	errMsg      string
}

func NewFileUpload(accepted []string, maxSize int64, maxFiles int) *FileUpload {
	return &FileUpload{
		accepted:    append([]string(nil), accepted...),
		maxSize:     maxSize,
		maxFiles:    maxFiles,
		previewSize: DefaultPreviewSize,
	}
}

// Add validates files in order and keeps the acceptable ones. Files beyond
// the free slots are dropped. The last rejection is kept as the error
// message. It returns how many files were added.
func (f *FileUpload) Add(files ...model.MediaFile) int {
	f.mu.Lock()
	if f.disabled {
		f.mu.Unlock()
		return 0
	}

	f.errMsg = ""
	slots := f.maxFiles - len(f.items)
	if slots < 0 {
		slots = 0
	}
	if len(files) > slots {
		f.errMsg = fmt.Sprintf("Maximum %d files allowed", f.maxFiles)
		files = files[:slots]
	}

	added := 0
	for _, file := range files {
		if file.ContentType == "" {
			file.ContentType = util.DetectMIME(file.Content)
		}

		if file.Size() > f.maxSize {
			f.errMsg = fmt.Sprintf("%s is too large (max %s)", file.Name, FormatBytes(f.maxSize))
			continue
		}
		if !util.MatchesAccept(f.accepted, file.Name, file.ContentType) {
			f.errMsg = fmt.Sprintf("%s is not an allowed file type (%s)", file.Name, strings.Join(f.accepted, ","))
			continue
		}

		f.items = append(f.items, f.uploadLocked(file))
		added++
	}

	if added == 0 {
		f.mu.Unlock()
		return 0
	}

	f.commitLocked()
	return added
}

// Remove drops the first file called name.
func (f *FileUpload) Remove(name string) bool {
	f.mu.Lock()
	idx := slices.IndexFunc(f.items, func(u Upload) bool { return u.File.Name == name })
	if f.disabled || idx < 0 {
		f.mu.Unlock()
		return false
	}

	f.items = slices.Delete(f.items, idx, idx+1)
	f.commitLocked()
	return true
}

func (f *FileUpload) Clear() {
	f.mu.Lock()
	f.items = nil
	f.errMsg = ""
	f.commitLocked()
}

// SetValue replaces the files without validating them.
func (f *FileUpload) SetValue(files []model.MediaFile) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = f.items[:0]
	for _, file := range files {
		f.items = append(f.items, f.uploadLocked(file))
	}
	f.value = f.filesLocked()
}

func (f *FileUpload) Value() []model.MediaFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filesLocked()
}

func (f *FileUpload) Items() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Upload(nil), f.items...)
}

func (f *FileUpload) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *FileUpload) CanAddMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items) < f.maxFiles
}

func (f *FileUpload) Blur() {
	f.mu.Lock()
	_, blurFn := f.listenersLocked()
	f.mu.Unlock()

	notifyBlur(blurFn)
}

func (f *FileUpload) uploadLocked(file model.MediaFile) Upload {
	upload := Upload{File: file}
	if util.IsPreviewMIME(file.ContentType) {
		if preview, err := Preview(file.Content, f.previewSize); err == nil {
			upload.Preview = preview
		}
	}
	return upload
}

func (f *FileUpload) filesLocked() []model.MediaFile {
	out := make([]model.MediaFile, len(f.items))
	for i, item := range f.items {
		out[i] = item.File
	}
	return out
}

func (f *FileUpload) commitLocked() {
	f.value = f.filesLocked()
	value := f.filesLocked()
	changeFn, _ := f.listenersLocked()
	f.mu.Unlock()

	notifyChange(changeFn, value)
}

// Preview decodes content and scales it so its longest side is at most
// size pixels, returning the JPEG encoding.
func Preview(content []byte, size int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}

	scale := float64(size) / float64(max(width, height))
	if scale > 1 {
		scale = 1
	}

	targetWidth := max(1, int(math.Round(float64(width)*scale)))
	targetHeight := max(1, int(math.Round(float64(height)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatBytes renders n with a binary unit: 5242880 -> "5 MB".
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	i = min(i, len(units)-1)

	value := math.Round(float64(n)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + units[i]
}

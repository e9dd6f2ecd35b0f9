package widget

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"immo-client/internal/model"
)

func TestFormatThousands(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1 000",
		1500000:  "1 500 000",
		-25000:   "-25 000",
		12345678: "12 345 678",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatThousands(in))
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1500000), ParseAmount("1 500 000 FCFA"))
	assert.Equal(t, int64(42), ParseAmount("4a2"))
	assert.Zero(t, ParseAmount("abc"))
	assert.Zero(t, ParseAmount("99999999999999999999"))
}

func TestCurrencyInputFocusAndBlur(t *testing.T) {
	t.Parallel()

	c := NewCurrencyInput(WithMin(0), WithMax(1000000))
	var changes []int64
	blurs := 0
	c.OnChange(func(v int64) { changes = append(changes, v) })
	c.OnBlur(func() { blurs++ })

	c.Focus()
	c.Input("25 000")
	assert.Equal(t, "25000", c.Display())
	assert.Equal(t, int64(25000), c.Value())

	c.Blur()
	assert.Equal(t, "25 000", c.Display())
	assert.Equal(t, 1, blurs)

	c.Input("5 000 000")
	assert.Equal(t, int64(1000000), c.Value())
	assert.Equal(t, "1 000 000", c.Display())
	assert.Equal(t, []int64{25000, 1000000}, changes)
}

func TestCurrencyInputSetValueIsSilent(t *testing.T) {
	t.Parallel()

	c := NewCurrencyInput()
	fired := false
	c.OnChange(func(int64) { fired = true })

	c.SetValue(75000)
	assert.Equal(t, "75 000", c.Display())
	c.SetValue(0)
	assert.Empty(t, c.Display())
	assert.False(t, fired)

	c.SetDisabled(true)
	c.Input("100")
	assert.Zero(t, c.Value())
	assert.False(t, fired)
}

func TestCurrencyInputClampsToMin(t *testing.T) {
	t.Parallel()

	c := NewCurrencyInput(WithMin(1000))
	c.Input("12")
	assert.Equal(t, int64(1000), c.Value())
}

var communes = []Option{
	{Value: "cocody", Label: "Cocody"},
	{Value: "marcory", Label: "Marcory"},
	{Value: "yopougon", Label: "Yopougon"},
	{Value: "plateau", Label: "Plateau", Disabled: true},
}

func TestSearchSelect(t *testing.T) {
	t.Parallel()

	s := NewSearchSelect(communes)
	var got string
	blurs := 0
	s.OnChange(func(v string) { got = v })
	s.OnBlur(func() { blurs++ })

	s.Toggle()
	require.True(t, s.IsOpen())
	s.Search("CO")
	filtered := s.Filtered()
	require.Len(t, filtered, 2)
	assert.Equal(t, "cocody", filtered[0].Value)
	assert.Equal(t, "marcory", filtered[1].Value)

	require.True(t, s.Select("marcory"))
	assert.Equal(t, "marcory", got)
	assert.Equal(t, "Marcory", s.SelectedLabel())
	assert.False(t, s.IsOpen())
	assert.Equal(t, 1, blurs)
	assert.Len(t, s.Filtered(), len(communes))

	assert.False(t, s.Select("plateau"))
	assert.False(t, s.Select("unknown"))
	assert.Equal(t, "marcory", s.Value())

	s.SetDisabled(true)
	s.Toggle()
	assert.False(t, s.IsOpen())
}

func TestMultiSelect(t *testing.T) {
	t.Parallel()

	m := NewMultiSelect(communes, 2)
	var last []string
	m.OnChange(func(v []string) { last = v })

	assert.Equal(t, "0/2 selected", m.CountText())
	require.True(t, m.Select("yopougon"))
	require.True(t, m.Select("cocody"))
	assert.False(t, m.Select("marcory"), "max reached")
	assert.True(t, m.MaxReached())
	assert.Equal(t, []string{"yopougon", "cocody"}, last)

	selected := m.Selected()
	require.Len(t, selected, 2)
	assert.Equal(t, "cocody", selected[0].Value)

	available := m.Available()
	require.Len(t, available, 2)
	assert.Equal(t, "marcory", available[0].Value)

	require.True(t, m.Remove("yopougon"))
	assert.Equal(t, []string{"cocody"}, m.Value())
	assert.False(t, m.Remove("yopougon"))

	require.True(t, m.RemoveLast())
	assert.Empty(t, m.Value())
	assert.Equal(t, "0/2 selected", m.CountText())
}

func TestMultiSelectUnlimited(t *testing.T) {
	t.Parallel()

	m := NewMultiSelect(communes, 0)
	for _, value := range []string{"cocody", "marcory", "yopougon"} {
		require.True(t, m.Select(value))
	}
	assert.False(t, m.Select("cocody"), "already selected")
	assert.False(t, m.Select("plateau"), "disabled option")
	assert.False(t, m.MaxReached())
	assert.Equal(t, "3 selected", m.CountText())

	m.Search("yop")
	assert.False(t, m.RemoveLast(), "search box not empty")

	out := m.Value()
	out[0] = "mutated"
	assert.Equal(t, "cocody", m.Value()[0])
}

func pngBytes(t *testing.T, w int, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreviewScalesLongestSide(t *testing.T) {
	t.Parallel()

	preview, err := Preview(pngBytes(t, 400, 200), 160)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(preview))
	require.NoError(t, err)
	assert.Equal(t, 160, decoded.Bounds().Dx())
	assert.Equal(t, 80, decoded.Bounds().Dy())

	small, err := Preview(pngBytes(t, 20, 10), 160)
	require.NoError(t, err)
	decoded, err = jpeg.Decode(bytes.NewReader(small))
	require.NoError(t, err)
	assert.Equal(t, 20, decoded.Bounds().Dx())

	_, err = Preview([]byte("%PDF-1.4"), 160)
	require.Error(t, err)
}

func TestFileUpload(t *testing.T) {
	t.Parallel()

	u := NewFileUpload([]string{"image/*", ".pdf"}, 1<<20, 2)
	changes := 0
	u.OnChange(func([]model.MediaFile) { changes++ })

	added := u.Add(
		model.MediaFile{Name: "salon.png", Content: pngBytes(t, 64, 32)},
		model.MediaFile{Name: "plan.pdf", Content: []byte("%PDF-1.4 plan")},
	)
	require.Equal(t, 2, added)
	assert.Empty(t, u.Error())
	assert.Equal(t, 1, changes)

	items := u.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "image/png", items[0].File.ContentType)
	assert.NotEmpty(t, items[0].Preview)
	assert.Nil(t, items[1].Preview)
	assert.False(t, u.CanAddMore())

	assert.Zero(t, u.Add(model.MediaFile{Name: "extra.png", Content: pngBytes(t, 8, 8)}))
	assert.Equal(t, "Maximum 2 files allowed", u.Error())

	require.True(t, u.Remove("plan.pdf"))
	assert.Len(t, u.Value(), 1)
	assert.False(t, u.Remove("plan.pdf"))
}

func TestFileUploadRejections(t *testing.T) {
	t.Parallel()

	u := NewFileUpload([]string{"image/*", ".pdf"}, 16, 5)

	assert.Zero(t, u.Add(model.MediaFile{Name: "big.pdf", Content: bytes.Repeat([]byte("a"), 17)}))
	assert.Equal(t, "big.pdf is too large (max 16 Bytes)", u.Error())

	assert.Zero(t, u.Add(model.MediaFile{Name: "notes.txt", ContentType: "text/plain", Content: []byte("hi")}))
	assert.Equal(t, "notes.txt is not an allowed file type (image/*,.pdf)", u.Error())

	assert.Equal(t, 1, u.Add(model.MediaFile{Name: "ok.pdf", Content: []byte("%PDF")}))
	assert.Empty(t, u.Error())
}

func TestFileUploadSetValueSkipsValidation(t *testing.T) {
	t.Parallel()

	u := NewFileUpload([]string{".pdf"}, 1, 1)
	u.SetValue([]model.MediaFile{{Name: "a.txt", Content: []byte("hello")}, {Name: "b.txt"}})
	assert.Len(t, u.Value(), 2)
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0 Bytes", FormatBytes(0))
	assert.Equal(t, "512 Bytes", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "5 MB", FormatBytes(5242880))
}

func TestDatePicker(t *testing.T) {
	t.Parallel()

	earliest := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2026, 12, 31, 15, 0, 0, 0, time.UTC)
	d := NewDatePicker(earliest, latest)

	var got time.Time
	d.OnChange(func(v time.Time) { got = v })

	require.NoError(t, d.Input("2026-03-15"))
	assert.Equal(t, "2026-03-15", d.Text())
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)

	require.NoError(t, d.Input("2026-12-31"))

	require.Error(t, d.Input("15/03/2026"))
	assert.Equal(t, "Expected a date like 2006-01-02", d.Error())
	assert.Equal(t, "2026-12-31", d.Text())

	require.ErrorContains(t, d.Input("2025-12-31"), "on or after 2026-01-01")
	require.ErrorContains(t, d.Input("2027-01-01"), "on or before 2026-12-31")

	require.NoError(t, d.Input(""))
	assert.Empty(t, d.Text())
	assert.True(t, d.Value().IsZero())
}

func TestListenersRunInOrderAndMayReadTheWidget(t *testing.T) {
	t.Parallel()

	s := NewSearchSelect([]Option{{Value: "cocody", Label: "Cocody"}})
	var order []string
	s.OnChange(func(string) { order = append(order, "first:"+s.Value()) })
	s.OnChange(func(v string) { order = append(order, "second:"+v) })
	s.OnBlur(func() { order = append(order, "blur:"+s.SelectedLabel()) })

	s.Open()
	require.True(t, s.Select("cocody"))
	assert.Equal(t, []string{"first:cocody", "second:cocody", "blur:Cocody"}, order)
}

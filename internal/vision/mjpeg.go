package vision

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"os"
	"os/exec"
	"time"

	"golang.org/x/image/draw"
)

// MJPEGSource читает поток соединённых JPEG-кадров.
// Кадры выделяются по маркерам SOI (0xFFD8) и EOI (0xFFD9) и
// декодируются стандартным image/jpeg.
type MJPEGSource struct {
	r      *bufio.Reader
	closer io.Closer
	cmd    *exec.Cmd
	index  int
}

// NewMJPEGSource оборачивает поток MJPEG в FrameSource
func NewMJPEGSource(rc io.ReadCloser) *MJPEGSource {
	return &MJPEGSource{
		r:      bufio.NewReaderSize(rc, 1<<20),
		closer: rc,
	}
}

// OpenVideo открывает видеофайл или устройство захвата через ffmpeg,
// перекодируя поток в MJPEG на stdout. Поддерживает webm, mp4 и
// устройства v4l2 (путь вида /dev/video0).
func OpenVideo(ffmpegPath, source string) (*MJPEGSource, error) {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, source)
	}
	args = append(args, "-i", source, "-f", "mjpeg", "-q:v", "2", "pipe:1")

	cmd := exec.Command(ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrSourceUnavailable, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: ffmpeg start: %v", ErrSourceUnavailable, err)
	}

	log.Printf("[VIDEO] ffmpeg started: source=%s", source)

	src := NewMJPEGSource(stdout)
	src.cmd = cmd
	return src, nil
}

// Read возвращает следующий кадр потока или io.EOF по его окончании
func (s *MJPEGSource) Read() (*Frame, error) {
	seg, err := s.nextSegment()
	if err != nil {
		return nil, err
	}

	img, err := jpeg.Decode(bytes.NewReader(seg))
	if err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", s.index, err)
	}

	frame := &Frame{
		Image:     toRGBA(img),
		Index:     s.index,
		Timestamp: time.Now(),
	}
	s.index++
	return frame, nil
}

// nextSegment вычитывает один JPEG-сегмент между маркерами SOI и EOI
func (s *MJPEGSource) nextSegment() ([]byte, error) {
	// ищем SOI
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return nil, io.EOF
		}
		if b != 0xFF {
			continue
		}
		next, err := s.r.ReadByte()
		if err != nil {
			return nil, io.EOF
		}
		if next == 0xD8 {
			break
		}
		if next == 0xFF {
			s.r.UnreadByte()
		}
	}

	buf := bytes.NewBuffer([]byte{0xFF, 0xD8})
	prev := byte(0)
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return nil, io.EOF
		}
		buf.WriteByte(b)
		if prev == 0xFF && b == 0xD9 {
			return buf.Bytes(), nil
		}
		prev = b
	}
}

// Close останавливает чтение и дожидается завершения ffmpeg
func (s *MJPEGSource) Close() error {
	var err error
	if s.closer != nil {
		err = s.closer.Close()
	}
	if s.cmd != nil {
		if waitErr := s.cmd.Wait(); waitErr != nil && err == nil {
			err = waitErr
		}
	}
	return err
}

// Transcode конвертирует загруженную запись (webm) в mp4 для хранения
func Transcode(ffmpegPath, src, dst string) error {
	cmd := exec.Command(ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", src, "-c:v", "libx264", "-preset", "fast", "-y", dst)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg transcode %s: %v: %s", src, err, out)
	}
	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

package sdk

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"
)

// maxAttachmentBytes caps the encoded data URI. Attachments travel inline
// through the relay, so oversized posts would punish every peer in the room.
const maxAttachmentBytes = 1 << 20 // 1 MB

const dataURIPrefix = "data:image/jpeg;base64,"

// EncodeImageAttachment turns a raw image (PNG, JPEG, GIF, ...) into the
// inline form wall posts carry: auto-oriented, downscaled to maxWidth if
// wider, re-encoded as JPEG at the given quality and wrapped in a data URI.
func EncodeImageAttachment(raw []byte, maxWidth, quality int) (string, error) {
	if maxWidth <= 0 {
		maxWidth = defaultMaxImageWidth
	}
	if quality <= 0 || quality > 100 {
		quality = defaultImageQuality
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	uri := dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
	if len(uri) > maxAttachmentBytes {
		return "", ErrImageTooLarge
	}
	return uri, nil
}

package client

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactFileKey(t *testing.T) {
	key := ContactFileKey("contact_1700000000000_abc123def", "resume", 0, "My Resume.PDF")

	assert.True(t, strings.HasPrefix(key, "contact/contact_1700000000000_abc123def/resume_"))
	assert.True(t, strings.HasSuffix(key, ".pdf"), "extension is lowercased: %s", key)

	// field_{unixMilli}_{seq}{ext} after the submission directory
	pattern := regexp.MustCompile(`^contact/contact_1700000000000_abc123def/resume_\d+_0\.pdf$`)
	assert.True(t, pattern.MatchString(key), "unexpected key shape: %s", key)
}

func TestContactFileKey_UniquePerCall(t *testing.T) {
	// Keys embed an upload timestamp, so the original file name never
	// collides with an earlier upload of the same slot
	a := ContactFileKey("contact_1_x", "attachment", 0, "a.pdf")
	b := ContactFileKey("contact_2_y", "attachment", 0, "a.pdf")
	assert.NotEqual(t, a, b)
}

func TestContactFileKey_DistinctWithinSameMillisecond(t *testing.T) {
	// Two files under the same field in one request share the timestamp;
	// the sequence number keeps their keys apart
	a := ContactFileKey("contact_1_x", "attachment", 0, "a.pdf")
	b := ContactFileKey("contact_1_x", "attachment", 1, "b.pdf")
	assert.NotEqual(t, a, b)
}

func TestImageKey(t *testing.T) {
	assert.Equal(t, "images/hero/top-banner.jpg", ImageKey("hero", "top-banner", "Banner.JPG"))
	assert.Equal(t, "images/gallery/room-1.png", ImageKey("gallery", "room-1", "photo.png"))
}

func TestGetPublicURL(t *testing.T) {
	aws := &S3Client{bucket: "my-bucket", region: "ap-northeast-1"}
	assert.Equal(t,
		"https://my-bucket.s3.ap-northeast-1.amazonaws.com/images/hero/banner.jpg",
		aws.GetPublicURL("images/hero/banner.jpg"),
	)

	minio := &S3Client{bucket: "my-bucket", region: "us-east-1", endpoint: "http://localhost:9000/"}
	assert.Equal(t,
		"http://localhost:9000/my-bucket/images/hero/banner.jpg",
		minio.GetPublicURL("images/hero/banner.jpg"),
	)
}

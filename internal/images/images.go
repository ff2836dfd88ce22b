package images

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/containers/image/v5/docker/reference"
)

type Image string

const (
	Restic Image = "RELATED_IMAGE_RESTIC"
)

var Images = []Image{
	Restic,
}

//go:generate cp ../../config/default/images.env embed/images.env
//go:embed embed/*
var content embed.FS

var Registry registry

func init() {
	fd, err := content.ReadFile("embed/images.env")
	if err != nil {
		panic(err)
	}

	data, err := parseConfigFile(fd)
	if err != nil {
		panic(err)
	}

	Registry = registry{
		data: data,
	}

}

// parseConfigFile parses an embedded `.env` content and returns a map of key-value pairs.
func parseConfigFile(envContent []byte) (map[Image]string, error) {
	data := make(map[Image]string)
	scanner := bufio.NewScanner(bytes.NewReader(envContent))

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines or comments
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid line format: %s", line)
		}
		data[Image(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading env content: %w", err)
	}

	return data, nil
}

type registry struct {
	mutex sync.RWMutex
	data  map[Image]string
}

func (r *registry) Get(name Image) string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.data[name]
}

func (r *registry) Set(name Image, value string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.data[name] = value
}

// Split validates an image reference and returns its repository in familiar form together with
// its tag. A reference without a tag gets "latest". Digest references are rejected because the
// populator spec only carries a tag.
func Split(image string) (string, string, error) {
	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return "", "", fmt.Errorf("invalid image %q: %w", image, err)
	}
	if _, ok := named.(reference.Digested); ok {
		return "", "", fmt.Errorf("invalid image %q: digest references are not supported", image)
	}
	tagged, ok := reference.TagNameOnly(named).(reference.NamedTagged)
	if !ok {
		return "", "", fmt.Errorf("invalid image %q: missing tag", image)
	}
	return reference.FamiliarName(tagged), tagged.Tag(), nil
}

package utils

import (
	"archive/tar"
	"bytes"
)

// InMemoryArchive builds a tar archive in memory, mainly for copying
// generated content into containers without touching the host filesystem.
type InMemoryArchive struct {
	content *bytes.Buffer
	writer  *tar.Writer
}

func NewInMemoryArchive() *InMemoryArchive {
	buf := new(bytes.Buffer)
	return &InMemoryArchive{
		writer:  tar.NewWriter(buf),
		content: buf,
	}
}

func (bc *InMemoryArchive) Add(name, data string) error {
	return bc.AddBytes(name, []byte(data))
}

func (bc *InMemoryArchive) AddBytes(name string, data []byte) error {
	header := &tar.Header{Name: name, Mode: 0644, Size: int64(len(data))}
	if err := bc.writer.WriteHeader(header); err != nil {
		return err
	}
	_, err := bc.writer.Write(data)
	return err
}

func (bc *InMemoryArchive) Close() (*bytes.Buffer, error) {
	if err := bc.writer.Close(); err != nil {
		return nil, err
	}
	return bc.content, nil
}

package glance

import (
	"sort"
	"sync"
	"time"

	"github.com/getmockd/mimic/internal/id"
)

// Image is an image record as returned by the API.
type Image struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Visibility string    `json:"visibility"`
	Protected  bool      `json:"protected"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	Self       string    `json:"self,omitempty"`
}

// cannedImages are present in every tenant's image list.
var cannedImages = []Image{
	{ID: "2d97cef4-0e0b-4d2c-bb0e-d7a4a3bb4a1b", Name: "Ubuntu 24.04 LTS (Noble Numbat)", Status: "active", Visibility: "public", Protected: true, Tags: []string{}},
	{ID: "7c2f3a5e-a1f4-4e4b-9f51-6a0d1cc1a6d0", Name: "Debian 12 (Bookworm)", Status: "active", Visibility: "public", Protected: true, Tags: []string{}},
	{ID: "c6a1b9d2-3f0e-4b8c-8d4a-0f6e2e6d9b37", Name: "Fedora 40", Status: "active", Visibility: "public", Protected: true, Tags: []string{}},
}

// imageStore holds the images created by one tenant in one region.
type imageStore struct {
	region string

	mu     sync.RWMutex
	images map[string]Image
}

func newImageStore(region string) *imageStore {
	return &imageStore{region: region, images: make(map[string]Image)}
}

func (s *imageStore) list() []Image {
	s.mu.RLock()
	created := make([]Image, 0, len(s.images))
	for _, img := range s.images {
		created = append(created, img)
	}
	s.mu.RUnlock()

	sort.Slice(created, func(i, j int) bool {
		if created[i].CreatedAt.Equal(created[j].CreatedAt) {
			return created[i].ID < created[j].ID
		}
		return created[i].CreatedAt.Before(created[j].CreatedAt)
	})

	out := make([]Image, 0, len(cannedImages)+len(created))
	out = append(out, cannedImages...)
	return append(out, created...)
}

func (s *imageStore) get(imageID string) (Image, bool) {
	for _, img := range cannedImages {
		if img.ID == imageID {
			return img, true
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[imageID]
	return img, ok
}

func (s *imageStore) create(name string, tags []string) Image {
	if tags == nil {
		tags = []string{}
	}
	img := Image{
		ID:         id.UUID(),
		Name:       name,
		Status:     "queued",
		Visibility: "private",
		Tags:       tags,
		CreatedAt:  time.Now().UTC(),
	}
	s.mu.Lock()
	s.images[img.ID] = img
	s.mu.Unlock()
	return img
}

// remove deletes a created image. Canned images are protected.
func (s *imageStore) remove(imageID string) (found, protected bool) {
	for _, img := range cannedImages {
		if img.ID == imageID {
			return true, true
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[imageID]; !ok {
		return false, false
	}
	delete(s.images, imageID)
	return true, false
}

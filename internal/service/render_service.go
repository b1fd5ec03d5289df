package service

import (
	"github.com/xxxsen/mblog/internal/markdown"
)

// RenderService backs the admin preview endpoint.
type RenderService struct {
	renderer *markdown.Renderer
}

func NewRenderService() *RenderService {
	return &RenderService{renderer: markdown.NewRenderer()}
}

func (s *RenderService) Render(content string) string {
	return s.renderer.Render(content)
}

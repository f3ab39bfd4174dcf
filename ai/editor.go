package ai

import "context"

// EditRequest carries one resolved instruction and the image it applies to.
// ImageURL is either a data URL or a remote http(s) URL.
type EditRequest struct {
	Prompt   string
	ImageURL string
}

// EditResult holds the enhanced image as a data URL. ImageURL is empty when
// the model returned no new image.
type EditResult struct {
	ImageURL string
}

// Editor performs one image edit against the external model. Handlers depend
// on this interface so tests can stub the model out.
type Editor interface {
	Edit(ctx context.Context, req EditRequest) (EditResult, error)
}

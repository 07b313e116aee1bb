// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package swapchain manages the window surface and the chain of
// presentable images the engine renders into.
package swapchain

import (
	"github.com/devblok/ember/gpu"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrPresentationChainCreationFailed is returned when the surface or the
// chain could not be created. The driver error is kept in the chain.
var ErrPresentationChainCreationFailed = errors.New("presentation chain creation failed")

// Configuration describes the chain to build. The format and present
// mode are fixed values for now rather than queried from the surface.
type Configuration struct {
	Format      gpu.Format
	ColorSpace  gpu.ColorSpace
	PresentMode gpu.PresentMode
	Usage       gpu.ImageUsage

	// ImageCount is the minimum number of images,
	// 0 lets the driver decide
	ImageCount uint32
}

// DefaultConfiguration is BGRA8 in sRGB non-linear space, presented FIFO,
// usable as color attachment and blit target
var DefaultConfiguration = Configuration{
	Format:      gpu.FormatB8G8R8A8Unorm,
	ColorSpace:  gpu.ColorSpaceSRGBNonlinear,
	PresentMode: gpu.PresentModeFIFO,
	Usage:       gpu.ImageUsageColorAttachment | gpu.ImageUsageTransferDst,
}

// SurfaceSource is anything that can bind itself to an instance
// for presentation, usually a window
type SurfaceSource interface {
	CreateSurface(gpu.Instance) (gpu.Surface, error)
}

// CreateSurface binds source to the instance
func CreateSurface(instance gpu.Instance, source SurfaceSource) (gpu.Surface, error) {
	surface, err := source.CreateSurface(instance)
	if err != nil {
		return nil, failed(errors.Wrap(err, "surface"))
	}
	return surface, nil
}

// Chain is a created presentation chain with one view per image
type Chain struct {
	Format      gpu.Format
	ColorSpace  gpu.ColorSpace
	PresentMode gpu.PresentMode
	Extent      gpu.Extent
	Images      []gpu.Image
	Views       []gpu.ImageView

	device    gpu.Device
	swapchain gpu.Swapchain
}

// New creates a presentation chain of width by height on the surface and a
// view for each of its images. On failure everything created so far is
// released again. A nil logger logs to the standard logger.
func New(dev gpu.Device, surface gpu.Surface, width, height uint32, cfg Configuration, logger log.FieldLogger) (*Chain, error) {
	if width == 0 || height == 0 {
		return nil, failed(errors.Errorf("zero extent %dx%d", width, height))
	}

	scc := gpu.SwapchainConfiguration{
		Format:        cfg.Format,
		ColorSpace:    cfg.ColorSpace,
		PresentMode:   cfg.PresentMode,
		Usage:         cfg.Usage | gpu.ImageUsageColorAttachment | gpu.ImageUsageTransferDst,
		Extent:        gpu.Extent{Width: width, Height: height},
		MinImageCount: cfg.ImageCount,
	}

	sc, extent, err := dev.CreateSwapchain(surface, scc)
	if err != nil {
		return nil, failed(errors.Wrap(err, "swapchain"))
	}

	c := &Chain{
		Format:      cfg.Format,
		ColorSpace:  cfg.ColorSpace,
		PresentMode: cfg.PresentMode,
		Extent:      extent,
		device:      dev,
		swapchain:   sc,
	}

	images, err := dev.SwapchainImages(sc)
	if err != nil {
		c.Destroy()
		return nil, failed(errors.Wrap(err, "swapchain images"))
	}
	c.Images = images

	for idx, img := range images {
		view, err := dev.CreateImageView(img, cfg.Format)
		if err != nil {
			c.Destroy()
			return nil, failed(errors.Wrapf(err, "image view %d", idx))
		}
		c.Views = append(c.Views, view)
	}

	if logger == nil {
		logger = log.StandardLogger()
	}
	logger.WithFields(log.Fields{
		"format":  c.Format,
		"present": c.PresentMode,
		"width":   c.Extent.Width,
		"height":  c.Extent.Height,
		"images":  len(c.Images),
	}).Debug("presentation chain created")
	return c, nil
}

// Len is the number of presentable images
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Images)
}

// Destroy releases the views, last created first, then the chain itself.
// It is safe to call on a nil or already destroyed chain.
func (c *Chain) Destroy() {
	if c == nil || c.device == nil {
		return
	}
	for idx := len(c.Views) - 1; idx >= 0; idx-- {
		c.device.DestroyImageView(c.Views[idx])
	}
	c.Views = nil
	c.Images = nil

	c.device.DestroySwapchain(c.swapchain)
	c.swapchain = nil
	c.device = nil
}

type creationError struct {
	err error
}

func (e *creationError) Error() string {
	return ErrPresentationChainCreationFailed.Error() + ": " + e.err.Error()
}

func (e *creationError) Unwrap() error {
	return e.err
}

func (e *creationError) Is(target error) bool {
	return target == ErrPresentationChainCreationFailed
}

func failed(err error) error {
	return &creationError{err: err}
}

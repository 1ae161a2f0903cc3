package services

import (
	"fmt"

	"appliancestore/internal/domain"
	"appliancestore/internal/repos"
	"appliancestore/internal/validate"
)

type SliderService struct {
	Sliders *repos.SliderRepo
}

func NewSliderService(sliders *repos.SliderRepo) *SliderService {
	return &SliderService{Sliders: sliders}
}

// SliderInput mirrors the JSON body of the slider API. Pointers distinguish
// "absent" from zero values so defaults can apply.
type SliderInput struct {
	ImageURL    string `json:"image_url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	LinkURL     string `json:"link_url"`
	OrderIndex  *int   `json:"order_index"`
	IsActive    *bool  `json:"is_active"`
}

func (in SliderInput) fields() (repos.SliderFields, error) {
	img, ok := validate.Link(in.ImageURL)
	if !ok || img == "" {
		return repos.SliderFields{}, fmt.Errorf("%w: image_url is required", ErrInvalid)
	}
	link, ok := validate.Link(in.LinkURL)
	if !ok {
		return repos.SliderFields{}, fmt.Errorf("%w: link_url", ErrInvalid)
	}
	f := repos.SliderFields{
		ImageURL:    img,
		Title:       validate.Text(in.Title, 200),
		Description: validate.Text(in.Description, 1000),
		LinkURL:     link,
		IsActive:    true,
	}
	if in.OrderIndex != nil {
		f.OrderIndex = *in.OrderIndex
	}
	if in.IsActive != nil {
		f.IsActive = *in.IsActive
	}
	return f, nil
}

// CheckWithUpload validates in when an uploaded file will supply the image.
func (s *SliderService) CheckWithUpload(in SliderInput) error {
	if _, ok := validate.Link(in.LinkURL); !ok {
		return fmt.Errorf("%w: link_url", ErrInvalid)
	}
	return nil
}

func (s *SliderService) List() ([]domain.Slider, error) { return s.Sliders.List() }

func (s *SliderService) Active() ([]domain.Slider, error) { return s.Sliders.ListActive() }

func (s *SliderService) Get(id int64) (*domain.Slider, error) {
	sl, err := s.Sliders.Get(id)
	if err != nil {
		return nil, err
	}
	if sl == nil {
		return nil, ErrNotFound
	}
	return sl, nil
}

func (s *SliderService) Create(in SliderInput) (*domain.Slider, error) {
	f, err := in.fields()
	if err != nil {
		return nil, err
	}
	id, err := s.Sliders.Create(f, repos.DefaultUserID)
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *SliderService) Update(id int64, in SliderInput) (*domain.Slider, error) {
	f, err := in.fields()
	if err != nil {
		return nil, err
	}
	ok, err := s.Sliders.Update(id, f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.Get(id)
}

func (s *SliderService) Delete(id int64) error {
	ok, err := s.Sliders.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

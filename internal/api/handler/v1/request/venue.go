package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateVenueRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
	ImageURL string `json:"image_url"`
}

func (req *CreateVenueRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Address, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Capacity, validation.Min(0)),
		validation.Field(&req.ImageURL, is.URL),
	)
}

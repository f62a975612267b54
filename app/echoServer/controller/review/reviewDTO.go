package review

type AddReviewReq struct {
	Rating  int16   `json:"rating" validate:"required,gt=0"`
	Comment *string `json:"comment"`
}

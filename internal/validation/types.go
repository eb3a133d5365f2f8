package validation

// CreateCategoryRequest is the multipart form for POST /categories. The
// image file arrives separately as the "image" part.
type CreateCategoryRequest struct {
	CategoryName string   `form:"categoryName" validate:"required,min=1,max=50"`
	ProductsID   []string `form:"productsId" validate:"required,min=1,dive,required"` // at least one linked product
}

// CreateProductRequest is the multipart form for POST /products. The main
// image arrives as "image" and the gallery as repeated "gallery" parts.
type CreateProductRequest struct {
	Name        string   `form:"name" validate:"required,min=1,max=50"`
	Form        string   `form:"form" validate:"required"`
	Weight      int      `form:"weight" validate:"required,min=1"`
	ActualPrice float64  `form:"actualPrice" validate:"required,gte=1"`
	OfferPrice  float64  `form:"offerPrice" validate:"required,gte=1"`
	Rating      float64  `form:"rating" validate:"required,gte=1,lte=5"`
	Ingredients []string `form:"ingredients" validate:"required,min=1,dive,required"`
	Description string   `form:"description" validate:"required,max=300"`
	Highlights  []string `form:"highlights" validate:"omitempty,dive,required"`
}

// SignInRequest is the JSON payload for POST /auth/sign-in.
type SignInRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// SignUpRequest is the JSON payload for POST /auth/sign-up.
type SignUpRequest struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Phone          string `json:"phone" validate:"required"`
	Address        string `json:"address"`
	ReceiveUpdates bool   `json:"receiveUpdates"`
	RememberMe     bool   `json:"rememberMe"`
}

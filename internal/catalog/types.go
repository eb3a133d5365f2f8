package catalog

// Category is the record stored in the categories DynamoDB table.
type Category struct {
	ID           string   `dynamodbav:"id"`
	CategoryName string   `dynamodbav:"categoryName"`
	ImgSrc       string   `dynamodbav:"imgSrc"`
	ProductsID   []string `dynamodbav:"productsId"`
}

// Product is the record stored in the products DynamoDB table.
// OtherImgSrcSet is index-aligned with the gallery files the caller
// supplied, regardless of upload completion order.
type Product struct {
	ProductID      string   `dynamodbav:"productId"`
	ImgSrc         string   `dynamodbav:"imgSrc"`
	OtherImgSrcSet []string `dynamodbav:"otherImgSrcSet"`
	Name           string   `dynamodbav:"name"`
	Form           string   `dynamodbav:"form"`
	Weight         int      `dynamodbav:"weight"`
	ActualPrice    float64  `dynamodbav:"actualPrice"`
	OfferPrice     float64  `dynamodbav:"offerPrice"`
	Rating         float64  `dynamodbav:"rating"`
	Ingredients    []string `dynamodbav:"ingredients"`
	Description    string   `dynamodbav:"description"`
	Highlights     []string `dynamodbav:"highlights"`
}

// CategoryInput carries the raw material for CreateCategory. Image holds
// the original upload bytes; the service transcodes before storing.
type CategoryInput struct {
	CategoryName string
	Image        []byte
	ProductsID   []string
}

// ProductInput carries the raw material for CreateProduct.
type ProductInput struct {
	Name        string
	Form        string
	Weight      int
	ActualPrice float64
	OfferPrice  float64
	Rating      float64
	Ingredients []string
	Description string
	Highlights  []string
	MainImage   []byte
	Gallery     [][]byte
}

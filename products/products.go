package products

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thor8126/ProShop/db"
	"github.com/thor8126/ProShop/models"
	"github.com/thor8126/ProShop/utils"
)

// GetProducts lists the catalog, paginated, with optional keyword
// search on the product name.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if opts.Keyword != "" {
		filter["name"] = bson.M{"$regex": primitive.Regex{Pattern: opts.Keyword, Options: "i"}}
	}

	count, err := db.ProductCollection.CountDocuments(r.Context(), filter)
	if err != nil {
		log.Printf("GetProducts: count error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	findOpts := options.Find().
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cur, err := db.ProductCollection.Find(r.Context(), filter, findOpts)
	if err != nil {
		log.Printf("GetProducts: DB error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cur.Close(r.Context())

	products := []models.Product{}
	if err := cur.All(r.Context(), &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	pages := count / int64(opts.Limit)
	if count%int64(opts.Limit) != 0 {
		pages++
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products": products,
		"page":     opts.Page,
		"pages":    pages,
	})
}

// GetTopProducts returns the three best-rated products.
func GetTopProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	findOpts := options.Find().SetSort(bson.M{"rating": -1}).SetLimit(3)

	cur, err := db.ProductCollection.Find(r.Context(), bson.M{}, findOpts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cur.Close(r.Context())

	products := []models.Product{}
	if err := cur.All(r.Context(), &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var product models.Product
	err := db.ProductCollection.FindOne(r.Context(), bson.M{"productid": ps.ByName("id")}).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct inserts a sample product the admin then edits, the way
// the storefront admin screen works.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	now := time.Now()
	product := models.Product{
		ProductID:   utils.GetUUID(),
		Name:        "Sample name",
		Image:       "/static/productpic/sample.jpg",
		Brand:       "Sample brand",
		Category:    "Sample category",
		Description: "Sample description",
		Reviews:     []models.Review{},
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := db.ProductCollection.InsertOne(r.Context(), product); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		Image        string  `json:"image"`
		Brand        string  `json:"brand"`
		Category     string  `json:"category"`
		Description  string  `json:"description"`
		CountInStock int     `json:"countInStock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Price < 0 || input.CountInStock < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Price and stock must be non-negative")
		return
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var product models.Product
	err := db.ProductCollection.FindOneAndUpdate(r.Context(),
		bson.M{"productid": ps.ByName("id")},
		bson.M{"$set": bson.M{
			"name":           input.Name,
			"price":          input.Price,
			"image":          input.Image,
			"brand":          input.Brand,
			"category":       input.Category,
			"description":    input.Description,
			"count_in_stock": input.CountInStock,
			"updated_at":     time.Now(),
		}},
		opts,
	).Decode(&product)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, product)
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	res, err := db.ProductCollection.DeleteOne(r.Context(), bson.M{"productid": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product removed"})
}

// CreateReview adds a review to a product, one per user, and refolds
// the aggregate rating.
func CreateReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		Rating  float64 `json:"rating"`
		Comment string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(r.Context(), bson.M{"productid": ps.ByName("id")}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	for _, rev := range product.Reviews {
		if rev.UserID == userID {
			utils.RespondWithError(w, http.StatusBadRequest, "Product already reviewed")
			return
		}
	}

	var user models.User
	name := ""
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user); err == nil {
		name = user.Name
	}

	review := models.Review{
		UserID:    userID,
		Name:      name,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	}
	reviews := append(product.Reviews, review)

	sum := 0.0
	for _, rev := range reviews {
		sum += rev.Rating
	}
	rating := sum / float64(len(reviews))

	_, err := db.ProductCollection.UpdateOne(r.Context(),
		bson.M{"productid": product.ProductID},
		bson.M{"$set": bson.M{
			"reviews":     reviews,
			"num_reviews": len(reviews),
			"rating":      rating,
			"updated_at":  time.Now(),
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add review")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Review added"})
}

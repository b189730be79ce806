package profile

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/thor8126/ProShop/db"
	"github.com/thor8126/ProShop/models"
	"github.com/thor8126/ProShop/utils"
)

// GetProfile returns the logged-in user's profile.
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var user models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user.Summary())
}

// UpdateProfile updates the logged-in user's name, email, phone
// number, or password. Empty fields are left unchanged.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		PhoneNo  string `json:"phoneNo"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Email != "" {
		set["email"] = input.Email
	}
	if input.PhoneNo != "" {
		set["phone_no"] = input.PhoneNo
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Hash error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Could not process password")
			return
		}
		set["password_hash"] = string(hashed)
	}

	res := db.UserCollection.FindOneAndUpdate(r.Context(),
		bson.M{"userid": userID},
		bson.M{"$set": set},
	)
	if res.Err() != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user.Summary())
}

// GetUsers lists every user. Admin only.
func GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cur, err := db.UserCollection.Find(r.Context(), bson.M{})
	if err != nil {
		log.Printf("GetUsers: DB error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cur.Close(r.Context())

	var users []models.User
	if err := cur.All(r.Context(), &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	utils.RespondWithJSON(w, http.StatusOK, summaries)
}

// GetUserByID fetches one user. Admin only.
func GetUserByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var user models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": ps.ByName("id")}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user.Summary())
}

// UpdateUser updates a user's name, email, or admin role. Admin only.
func UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": ps.ByName("id")}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Email != "" {
		set["email"] = input.Email
	}
	role := []string{"user"}
	if input.IsAdmin {
		role = append(role, "admin")
	}
	set["role"] = role

	if _, err := db.UserCollection.UpdateOne(r.Context(), bson.M{"userid": user.UserID}, bson.M{"$set": set}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": user.UserID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user.Summary())
}

// DeleteUser removes a user. Admin accounts cannot be deleted.
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var user models.User
	if err := db.UserCollection.FindOne(r.Context(), bson.M{"userid": ps.ByName("id")}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if user.IsAdmin() {
		utils.RespondWithError(w, http.StatusBadRequest, "Can not delete admin user")
		return
	}

	if _, err := db.UserCollection.DeleteOne(r.Context(), bson.M{"userid": user.UserID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "User removed"})
}

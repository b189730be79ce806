package uploads

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"

	"github.com/thor8126/ProShop/utils"
)

// Directory to store uploaded product images
const productPicDir = "./static/productpic"

// UploadImage accepts a multipart image, stores it under the product
// picture directory, and writes a 300px-wide thumbnail next to it.
// Admin only; the returned path goes into the product's image field.
func UploadImage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	if err := utils.EnsureDir(productPicDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to prepare upload directory")
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Could not decode image")
		return
	}

	uniqueID := utils.GetUUID()
	ext := filepath.Ext(utils.SanitizeFilename(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	originalPath := filepath.Join(productPicDir, uniqueID+ext)
	thumbnailPath := filepath.Join(productPicDir, uniqueID+"_thumb"+ext)

	if err := imaging.Save(img, originalPath); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save image")
		return
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save thumbnail")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"image":     fmt.Sprintf("/static/productpic/%s%s", uniqueID, ext),
		"thumbnail": fmt.Sprintf("/static/productpic/%s_thumb%s", uniqueID, ext),
	})
}

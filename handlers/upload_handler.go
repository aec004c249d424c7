package handlers

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"boutique_backend/models"
)

// UploadHandler stores product images for the admin panel.
type UploadHandler struct{}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

// UploadImage saves the posted image under uploads/products and returns its
// public URL, to be set as a product's image_url.
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Fichier image requis"))
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Seuls les fichiers .jpg, .jpeg et .png sont acceptés"))
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	if err := c.SaveFile(file, fmt.Sprintf("./uploads/products/%s", filename)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Échec de l'enregistrement du fichier"))
	}

	// Static files are served from /uploads.
	url := fmt.Sprintf("/uploads/products/%s", filename)
	return c.JSON(models.SuccessResponse("Image téléversée", fiber.Map{"url": url}))
}

package requests

// AddPromptRequest creates a prompt template in a category.
type AddPromptRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdatePromptRequest replaces a prompt's template text.
type UpdatePromptRequest struct {
	Content string `json:"content" binding:"required"`
}

// RenamePromptRequest changes a prompt's name within its category.
type RenamePromptRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

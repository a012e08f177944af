package posts

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/KAsare1/Kodefx-blog/cmd/utils"
)

const invalidGroup = "Select a valid choice. That choice is not one of the available choices."

// maxFormSize bounds the whole post form: one image plus the text fields.
const maxFormSize = utils.MaxImageSize + 1<<20

type PostForm struct {
	Text    string `form:"text" validate:"required"`
	GroupID *uint  `form:"group"`

	image  multipart.File
	header *multipart.FileHeader
}

// Selected reports whether the group with id is the form's choice.
func (f *PostForm) Selected(id uint) bool {
	return f.GroupID != nil && *f.GroupID == id
}

func (f *PostForm) HasImage() bool {
	return f.image != nil
}

func (f *PostForm) Close() {
	if f.image != nil {
		f.image.Close()
	}
}

type CommentForm struct {
	Text string `form:"text" validate:"required"`
}

// bindPostForm reads a urlencoded or multipart post form. Field problems are
// returned as FormErrors; err is only set when the store fails.
func (h *PostHandler) bindPostForm(w http.ResponseWriter, r *http.Request) (*PostForm, utils.FormErrors, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)

	form := &PostForm{}
	errs := utils.FormErrors{}
	if err := r.ParseMultipartForm(utils.MaxImageSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errs.Add("image", utils.ErrImageTooLarge.Error())
		} else {
			errs.Add(utils.NonFieldErrors, "The submitted form could not be read.")
		}
		return form, errs, nil
	}

	form.Text = strings.TrimSpace(r.PostFormValue("text"))
	for field, msg := range utils.ValidateForm(form) {
		errs.Add(field, msg)
	}

	if raw := strings.TrimSpace(r.PostFormValue("group")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs.Add("group", invalidGroup)
		} else {
			groupID := uint(id)
			form.GroupID = &groupID
			ok, err := h.groupExists(r.Context(), groupID)
			if err != nil {
				return form, errs, err
			}
			if !ok {
				errs.Add("group", invalidGroup)
			}
		}
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		errs.Add("image", "The submitted file could not be read.")
	default:
		if err := utils.CheckImage(file, header); err != nil {
			file.Close()
			errs.Add("image", imageError(err))
		} else {
			form.image, form.header = file, header
		}
	}
	return form, errs, nil
}

func imageError(err error) string {
	switch {
	case errors.Is(err, utils.ErrImageTooLarge), errors.Is(err, utils.ErrImageType), errors.Is(err, utils.ErrImageContent):
		return err.Error()
	default:
		return "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	}
}

func bindCommentForm(r *http.Request) *CommentForm {
	return &CommentForm{Text: strings.TrimSpace(r.PostFormValue("text"))}
}

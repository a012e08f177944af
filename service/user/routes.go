package user

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"github.com/KAsare1/Kodefx-blog/db"
	"github.com/KAsare1/Kodefx-blog/web"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

const (
	ResetTokenTTL    = time.Hour
	resetDoneURL     = "/auth/password_reset/done/"
	badCredentials   = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	duplicateUser    = "A user with that username already exists."
	duplicateEmail   = "A user with that email already exists."
	resetMailSubject = "Password reset"
)

type Handler struct {
	store    db.Store
	sessions *utils.Sessions
	render   web.Renderer
	mailer   Mailer
	siteURL  string
	hashCost int
	now      func() time.Time
}

func NewHandler(store db.Store, sessions *utils.Sessions, render web.Renderer, mailer Mailer, siteURL string) *Handler {
	return &Handler{
		store:    store,
		sessions: sessions,
		render:   render,
		mailer:   mailer,
		siteURL:  strings.TrimSuffix(siteURL, "/"),
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// RegisterRoutes sets up the account routes under /auth/.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/signup/", h.handleSignup).Methods("GET", "POST")
	router.HandleFunc("/auth/login/", h.handleLogin).Methods("GET", "POST")
	router.HandleFunc("/auth/logout/", h.handleLogout).Methods("GET", "POST")
	router.HandleFunc("/auth/password_reset/", h.handlePasswordResetRequest).Methods("GET", "POST")
	router.HandleFunc(resetDoneURL, h.handlePasswordResetDone).Methods("GET")
	router.HandleFunc("/auth/reset/{token}/", h.handlePasswordReset).Methods("GET", "POST")
}

type SignupPage struct {
	Form   *SignupForm
	Errors utils.FormErrors
}

type LoginPage struct {
	Form   *LoginForm
	Errors utils.FormErrors
}

type ResetRequestPage struct {
	Form   *ResetRequestForm
	Errors utils.FormErrors
}

type ResetConfirmPage struct {
	Valid  bool
	Errors utils.FormErrors
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render.Render(w, r, http.StatusOK, "registration/signup.html", SignupPage{Form: &SignupForm{}, Errors: utils.FormErrors{}})
		return
	}

	form := bindSignupForm(r)
	errs := utils.ValidateForm(form)
	if form.Email != "" && errs["email"] == "" {
		_, err := h.store.UserByEmail(r.Context(), form.Email)
		switch {
		case err == nil:
			errs.Add("email", duplicateEmail)
		case !errors.Is(err, db.ErrNotFound):
			web.ServerError(h.render, w, r, err)
			return
		}
	}
	if errs.Any() {
		h.renderSignup(w, r, form, errs)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(form.Password1), h.hashCost)
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}

	user := &models.User{
		Username:     form.Username,
		FullName:     form.FullName,
		PasswordHash: string(passwordHash),
	}
	if form.Email != "" {
		user.Email = &form.Email
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			errs.Add("username", duplicateUser)
			h.renderSignup(w, r, form, errs)
			return
		}
		web.ServerError(h.render, w, r, err)
		return
	}

	if err := h.sessions.Login(w, user.ID); err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	log.Printf("User %s signed up", user.Username)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) renderSignup(w http.ResponseWriter, r *http.Request, form *SignupForm, errs utils.FormErrors) {
	form.Password1, form.Password2 = "", ""
	h.render.Render(w, r, http.StatusOK, "registration/signup.html", SignupPage{Form: form, Errors: errs})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		form := &LoginForm{Next: r.URL.Query().Get("next")}
		h.render.Render(w, r, http.StatusOK, "registration/login.html", LoginPage{Form: form, Errors: utils.FormErrors{}})
		return
	}

	form := bindLoginForm(r)
	errs := utils.ValidateForm(form)
	if errs.Any() {
		h.renderLogin(w, r, form, errs)
		return
	}

	user, err := h.store.UserByUsername(r.Context(), form.Username)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		web.ServerError(h.render, w, r, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		errs.Add(utils.NonFieldErrors, badCredentials)
		h.renderLogin(w, r, form, errs)
		return
	}

	if err := h.sessions.Login(w, user.ID); err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	http.Redirect(w, r, utils.SafeNext(form.Next), http.StatusFound)
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, form *LoginForm, errs utils.FormErrors) {
	form.Password = ""
	h.render.Render(w, r, http.StatusOK, "registration/login.html", LoginPage{Form: form, Errors: errs})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w)
	r = r.WithContext(utils.WithUser(r.Context(), nil))
	h.render.Render(w, r, http.StatusOK, "registration/logged_out.html", nil)
}

// handlePasswordResetRequest mails a reset link when the address belongs to
// an account. The response is the same either way.
func (h *Handler) handlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render.Render(w, r, http.StatusOK, "registration/password_reset_form.html", ResetRequestPage{Form: &ResetRequestForm{}, Errors: utils.FormErrors{}})
		return
	}

	form := &ResetRequestForm{Email: strings.TrimSpace(r.PostFormValue("email"))}
	if errs := utils.ValidateForm(form); errs.Any() {
		h.render.Render(w, r, http.StatusOK, "registration/password_reset_form.html", ResetRequestPage{Form: form, Errors: errs})
		return
	}

	user, err := h.store.UserByEmail(r.Context(), form.Email)
	if errors.Is(err, db.ErrNotFound) {
		http.Redirect(w, r, resetDoneURL, http.StatusFound)
		return
	}
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}

	token := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     newResetToken(),
		ExpiresAt: h.now().Add(ResetTokenTTL),
	}
	if err := h.store.CreateResetToken(r.Context(), token); err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}

	body := fmt.Sprintf("Someone asked for a password reset for the account %q.\n\nFollow the link below to choose a new password:\n%s/auth/reset/%s/\n\nIgnore this email if you did not request a password reset.",
		user.Username, h.siteURL, token.Token)
	if err := h.mailer.Send(form.Email, resetMailSubject, body); err != nil {
		log.Printf("Error sending password reset email to user %d: %v", user.ID, err)
	}
	http.Redirect(w, r, resetDoneURL, http.StatusFound)
}

func (h *Handler) handlePasswordResetDone(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "registration/password_reset_done.html", nil)
}

func (h *Handler) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	token, err := h.store.ResetToken(r.Context(), mux.Vars(r)["token"])
	if errors.Is(err, db.ErrNotFound) {
		h.render.Render(w, r, http.StatusOK, "registration/password_reset_confirm.html", ResetConfirmPage{Valid: false, Errors: utils.FormErrors{}})
		return
	}
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}

	if r.Method != http.MethodPost {
		h.render.Render(w, r, http.StatusOK, "registration/password_reset_confirm.html", ResetConfirmPage{Valid: true, Errors: utils.FormErrors{}})
		return
	}

	form := bindSetPasswordForm(r)
	if errs := utils.ValidateForm(form); errs.Any() {
		h.render.Render(w, r, http.StatusOK, "registration/password_reset_confirm.html", ResetConfirmPage{Valid: true, Errors: errs})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(form.Password1), h.hashCost)
	if err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}
	if err := h.store.ResetPassword(r.Context(), token.UserID, string(passwordHash)); err != nil {
		web.ServerError(h.render, w, r, err)
		return
	}

	log.Printf("Password reset for user %d", token.UserID)
	http.Redirect(w, r, utils.LoginURL, http.StatusFound)
}

// newResetToken joins two random UUIDs into a 64 character hex string.
func newResetToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

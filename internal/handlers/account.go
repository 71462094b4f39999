package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/csemotors/dealer/internal/auth"
	"github.com/csemotors/dealer/internal/services"
	"github.com/csemotors/dealer/internal/store"
	"github.com/csemotors/dealer/internal/validation"
	"github.com/csemotors/dealer/internal/views"
)

const (
	msgRegistered         = "Congratulations, you're registered %s. Please log in."
	msgRegisterFailed     = "Sorry, the registration failed."
	msgBadCredentials     = "Please check your credentials and try again."
	msgLoggedIn           = "You are now logged in."
	msgLoginFailed        = "Sorry, something went wrong logging you in."
	msgAuthUnavailable    = "Authentication is temporarily unavailable. Please contact support."
	msgAccountNotFound    = "Account not found."
	msgUpdateNoAccess     = "You do not have access to update this account."
	msgUpdateForbidden    = "You do not have permission to update that account."
	msgPasswordForbidden  = "You do not have permission to update that password."
	msgAccountUpdated     = "Account information updated."
	msgUpdateFailed       = "Account could not be updated."
	msgUpdateRelogin      = "Account updated, but authentication token could not be refreshed. Please log in again."
	msgPasswordUpdated    = "Password updated successfully."
	msgPasswordFailed     = "Password could not be updated."
	msgPasswordRelogin    = "Password updated, but authentication token could not be refreshed. Please log in again."
	msgLoggedOut          = "You have been logged out."
	accountManagementPath = "/account/"
	loginPath             = "/account/login"
)

// AccountHandler serves registration, login and account maintenance pages.
type AccountHandler struct {
	*Site
	accounts  *services.AccountService
	validator *validation.Validator
}

func NewAccountHandler(site *Site, accounts *services.AccountService, validator *validation.Validator) *AccountHandler {
	return &AccountHandler{Site: site, accounts: accounts, validator: validator}
}

// AccountRouter registers account routes on the given router.
func AccountRouter(r chi.Router, site *Site, accounts *services.AccountService, validator *validation.Validator) {
	handler := NewAccountHandler(site, accounts, validator)

	r.Get("/login", handler.LoginView)
	r.Post("/login", handler.Login)
	r.Get("/register", handler.RegisterView)
	r.Post("/register", handler.Register)

	r.Group(func(r chi.Router) {
		r.Use(site.RequireLogin)
		r.Get("/", handler.Management)
		r.Get("/logout", handler.Logout)
		r.With(site.RequireAccountAccess(pathAccountID, msgUpdateNoAccess)).
			Get("/update/{accountID}", handler.UpdateView)
		r.With(site.RequireAccountAccess(formAccountID, msgUpdateForbidden)).
			Post("/update", handler.Update)
		r.With(site.RequireAccountAccess(formAccountID, msgPasswordForbidden)).
			Post("/update-password", handler.UpdatePassword)
	})
}

func (h *AccountHandler) LoginView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.Login, h.page(w, r, "Login"))
}

func (h *AccountHandler) RegisterView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.Register, h.page(w, r, "Register"))
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form validation.RegisterForm
	if err := decodeForm(r, &form); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	errs, err := h.validator.Register(r.Context(), &form)
	if err != nil {
		h.logger.Error("validate registration", zap.Error(err))
		h.registerForm(w, r, http.StatusInternalServerError, nil, msgRegisterFailed)
		return
	}
	if errs.Any() {
		h.registerForm(w, r, http.StatusBadRequest, errs)
		return
	}

	account, err := h.accounts.Register(r.Context(), form.FirstName, form.LastName, form.Email, form.Password)
	if err != nil {
		h.logger.Error("register account", zap.Error(err))
		h.registerForm(w, r, http.StatusInternalServerError, nil, msgRegisterFailed)
		return
	}

	page := h.page(w, r, "Login", fmt.Sprintf(msgRegistered, account.FirstName))
	page.Form = map[string]string{"account_email": account.Email}
	h.render(w, r, http.StatusCreated, views.Login, page)
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form validation.LoginForm
	if err := decodeForm(r, &form); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	if errs := h.validator.Login(&form); errs.Any() {
		h.loginForm(w, r, http.StatusBadRequest, errs)
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), form.Email, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.loginForm(w, r, http.StatusUnauthorized, nil, msgBadCredentials)
		return
	}
	if err != nil {
		h.logger.Error("authenticate", zap.Error(err))
		h.loginForm(w, r, http.StatusInternalServerError, nil, msgLoginFailed)
		return
	}

	token, err := h.accounts.IssueToken(account)
	if err != nil {
		h.logger.Error("issue token", zap.Int("account_id", account.ID), zap.Error(err))
		h.loginForm(w, r, http.StatusInternalServerError, nil, msgAuthUnavailable)
		return
	}

	h.cookies.SetToken(w, token, h.accounts.TokenMaxAge())
	h.redirect(w, r, accountManagementPath, msgLoggedIn)
}

func (h *AccountHandler) Management(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.AccountManagement, h.page(w, r, "Account Management"))
}

func (h *AccountHandler) UpdateView(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetByID(r.Context(), pathAccountID(r))
	if errors.Is(err, store.ErrNotFound) {
		h.redirect(w, r, accountManagementPath, msgAccountNotFound)
		return
	}
	if err != nil {
		h.logger.Error("load account", zap.Error(err))
		h.renderError(w, r, http.StatusInternalServerError)
		return
	}

	page := h.page(w, r, "Update "+account.FirstName)
	page.Form = map[string]string{
		"account_id":        strconv.Itoa(account.ID),
		"account_firstname": account.FirstName,
		"account_lastname":  account.LastName,
		"account_email":     account.Email,
	}
	h.render(w, r, http.StatusOK, views.AccountUpdate, page)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var form validation.AccountUpdateForm
	if err := decodeForm(r, &form); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	errs, err := h.validator.UpdateAccount(r.Context(), &form)
	if err != nil {
		h.logger.Error("validate account update", zap.Error(err))
		h.updateForm(w, r, http.StatusInternalServerError, echo(r), nil, msgUpdateFailed)
		return
	}
	if errs.Any() {
		h.updateForm(w, r, http.StatusBadRequest, echo(r), errs)
		return
	}

	account, err := h.accounts.UpdateProfile(r.Context(), form.AccountID, form.FirstName, form.LastName, form.Email)
	if err != nil {
		h.logger.Error("update account", zap.Int("account_id", form.AccountID), zap.Error(err))
		h.updateForm(w, r, http.StatusInternalServerError, echo(r), nil, msgUpdateFailed)
		return
	}

	if !h.refreshToken(w, r, account.ID) {
		h.cookies.ClearToken(w)
		h.redirect(w, r, loginPath, msgUpdateRelogin)
		return
	}
	h.redirect(w, r, accountManagementPath, msgAccountUpdated)
}

func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var form validation.PasswordUpdateForm
	if err := decodeForm(r, &form); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	if errs := h.validator.UpdatePassword(&form); errs.Any() {
		h.updateForm(w, r, http.StatusBadRequest, h.accountValues(r, form.AccountID), errs)
		return
	}

	account, err := h.accounts.UpdatePassword(r.Context(), form.AccountID, form.Password)
	if err != nil {
		h.logger.Error("update password", zap.Int("account_id", form.AccountID), zap.Error(err))
		h.updateForm(w, r, http.StatusInternalServerError, h.accountValues(r, form.AccountID), nil, msgPasswordFailed)
		return
	}

	if !h.refreshToken(w, r, account.ID) {
		h.cookies.ClearToken(w)
		h.redirect(w, r, loginPath, msgPasswordRelogin)
		return
	}
	h.redirect(w, r, accountManagementPath, msgPasswordUpdated)
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearToken(w)
	h.redirect(w, r, "/", msgLoggedOut)
}

// refreshToken reissues the caller's token after their own account changed.
// Employees editing another account keep their current token.
func (h *AccountHandler) refreshToken(w http.ResponseWriter, r *http.Request, accountID int) bool {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok || identity.AccountID != accountID {
		return true
	}

	account, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		h.logger.Error("reload account", zap.Int("account_id", accountID), zap.Error(err))
		return false
	}
	token, err := h.accounts.IssueToken(account)
	if err != nil {
		h.logger.Error("reissue token", zap.Int("account_id", accountID), zap.Error(err))
		return false
	}
	h.cookies.SetToken(w, token, h.accounts.TokenMaxAge())
	return true
}

// accountValues loads the stored profile to refill the update form.
func (h *AccountHandler) accountValues(r *http.Request, id int) map[string]string {
	values := map[string]string{"account_id": strconv.Itoa(id)}
	account, err := h.accounts.GetByID(r.Context(), id)
	if err != nil {
		return values
	}
	values["account_firstname"] = account.FirstName
	values["account_lastname"] = account.LastName
	values["account_email"] = account.Email
	return values
}

func (h *AccountHandler) registerForm(w http.ResponseWriter, r *http.Request, status int, errs validation.Errors, notices ...string) {
	page := h.page(w, r, "Register", notices...)
	page.Errors = errs
	page.Form = echo(r, "account_password")
	h.render(w, r, status, views.Register, page)
}

func (h *AccountHandler) loginForm(w http.ResponseWriter, r *http.Request, status int, errs validation.Errors, notices ...string) {
	page := h.page(w, r, "Login", notices...)
	page.Errors = errs
	page.Form = echo(r, "account_password")
	h.render(w, r, status, views.Login, page)
}

func (h *AccountHandler) updateForm(w http.ResponseWriter, r *http.Request, status int, values map[string]string, errs validation.Errors, notices ...string) {
	page := h.page(w, r, "Update Account", notices...)
	page.Errors = errs
	page.Form = values
	h.render(w, r, status, views.AccountUpdate, page)
}

func pathAccountID(r *http.Request) int {
	return parseID(chi.URLParam(r, "accountID"))
}

func formAccountID(r *http.Request) int {
	if err := parseForm(r); err != nil {
		return 0
	}
	return parseID(r.PostFormValue("account_id"))
}

// parseID returns 0 for anything that is not a positive integer.
func parseID(raw string) int {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 1 {
		return 0
	}
	return id
}

package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

func (app *Application) RegisterUser(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.RegisterRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user := &domain.User{
		Login: input.Login,
		Name:  input.Name,
		Email: input.Email,
	}

	err = user.Password.Set(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.userRepo.Create(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			app.conflictResponse(w, r, ErrUserAlreadyRegistered)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("user registered", "user_id", user.ID)

	err = app.writeJSON(w, http.StatusCreated, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) Login(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.LoginRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user, err := app.userRepo.GetByLogin(r.Context(), input.Login)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("login attempt for unknown user")
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	match, err := user.Password.Matches(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !match {
		logger.Warn("login attempt with wrong password", "user_id", user.ID)
		app.invalidCredentialsResponse(w, r)
		return
	}

	token, expiresAt, err := app.tokens.Issue(user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.contextGetLogger(r).Error("authenticated user not found in DB")
			app.invalidTokenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	var input api.UpdateProfileRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user, err := app.userRepo.GetById(r.Context(), userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Error("authenticated user not found in DB")
			app.invalidTokenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	applyProfileUpdate(user, input)

	err = app.userRepo.Update(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Error("authenticated user deleted during profile update")
			app.invalidTokenResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("user profile updated", "user_id", user.ID)

	err = app.writeJSON(w, http.StatusOK, toUserResponse(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func applyProfileUpdate(user *domain.User, input api.UpdateProfileRequest) {
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Avatar != nil {
		user.Profile.Avatar = *input.Avatar
	}
	if input.FavoriteGenres != nil {
		user.Profile.FavoriteGenres = *input.FavoriteGenres
	}
	if input.Language != nil {
		user.Profile.Language = *input.Language
	}
	if input.Theme != nil {
		user.Profile.Theme = *input.Theme
	}
}

// CheckAvailability reports whether the given login and email are both still free.
func (app *Application) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var params api.CheckAvailabilityParams

	for _, p := range []queryParam{
		{"login", &params.Login},
		{"email", &params.Email},
	} {
		err := app.readQueryParam(r, p.name, p.dest)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	available := true

	if params.Login != nil {
		taken, err := app.userRepo.ExistsByLogin(r.Context(), *params.Login)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		available = !taken
	}

	if available && params.Email != nil {
		taken, err := app.userRepo.ExistsByEmail(r.Context(), *params.Email)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		available = !taken
	}

	err = app.writeJSON(w, http.StatusOK, api.CheckAvailabilityResponse{Available: available}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toUserResponse(user *domain.User) api.UserResponse {
	genres := user.Profile.FavoriteGenres
	if genres == nil {
		genres = []string{}
	}

	return api.UserResponse{
		Id:             user.ID,
		Login:          user.Login,
		Name:           user.Name,
		Email:          user.Email,
		Avatar:         user.Profile.Avatar,
		FavoriteGenres: genres,
		Language:       user.Profile.Language,
		Theme:          user.Profile.Theme,
		IsAdmin:        user.IsAdmin,
		CreatedAt:      user.CreatedAt,
	}
}

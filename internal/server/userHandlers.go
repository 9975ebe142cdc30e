package server

import (
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"serium/internal/model"
)

const loginTokenLifetime = 30 * 24 * time.Hour

func (s Server) userRegister() http.HandlerFunc {
	type request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	type response struct {
		UserID string `json:"user_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("userRegister: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		if _, err := mail.ParseAddress(req.Email); err != nil {
			s.Logger.Debugf("userRegister: Invalid email: %s, err: %v", req.Email, err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if len(req.Password) < 8 {
			s.Logger.Debug("userRegister: Password too short")
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.Logger.Errorf("userRegister: Error hashing password, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		userID, err := s.DB.UserInsert(r.Context(), model.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: hashed,
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(errors.Cause(err)) {
				s.Logger.Debugf("userRegister: Email already registered: %s", req.Email)
				http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
				return
			}
			s.Logger.Errorf("userRegister: Error inserting User, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.writeJsonResponse(w, response{UserID: userID}, http.StatusOK)
	}
}

func (s Server) userLogin() http.HandlerFunc {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		DeviceID string `json:"device_id"`
		FCMToken string `json:"fcm_token"`
	}
	type response struct {
		UserID     string `json:"user_id"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		DeviceID   string `json:"device_id"`
		LoginToken string `json:"login_token"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("userLogin: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		u, err := s.DB.UserFindByEmail(r.Context(), req.Email)
		if err != nil {
			s.Logger.Debugf("userLogin: Error finding User with email: %s, err: %v", req.Email, err)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if err = bcrypt.CompareHashAndPassword(u.Password, []byte(req.Password)); err != nil {
			s.Logger.Debugf("userLogin: Wrong password for User with email: %s", req.Email)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		deviceID := req.DeviceID
		if deviceID == "" {
			deviceID = uuid.NewString()
		}

		expiration := time.Now().Add(loginTokenLifetime)
		t, err := jwt.NewBuilder().
			Subject(u.ID.Hex()).
			IssuedAt(time.Now()).
			Expiration(expiration).
			Claim("device", deviceID).
			Build()
		if err != nil {
			s.Logger.Errorf("userLogin: Error building login token, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		lt, err := jwt.Sign(t, jwt.WithKey(jwa.HS256, s.AuthSecretKey))
		if err != nil {
			s.Logger.Errorf("userLogin: Error signing login token, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		tokenHash := sha256.New()
		tokenHash.Write(lt)
		hashedToken, err := bcrypt.GenerateFromPassword(tokenHash.Sum(nil), bcrypt.DefaultCost)
		if err != nil {
			s.Logger.Errorf("userLogin: Error hashing login token, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		d := model.Device{
			DeviceID: deviceID,
			FCMToken: req.FCMToken,
			LoginToken: model.LoginToken{
				Token:      hashedToken,
				Expiration: primitive.NewDateTimeFromTime(expiration),
				CreatedAt:  primitive.NewDateTimeFromTime(time.Now()),
			},
		}
		if err = s.DB.UserDeviceUpsert(r.Context(), u.ID.Hex(), d); err != nil {
			s.Logger.Errorf("userLogin: Error upserting Device for UserID: %s, err: %v", u.ID.Hex(), err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		s.writeJsonResponse(w, response{
			UserID:     u.ID.Hex(),
			Name:       u.Name,
			Email:      u.Email,
			DeviceID:   deviceID,
			LoginToken: string(lt),
		}, http.StatusOK)
	}
}

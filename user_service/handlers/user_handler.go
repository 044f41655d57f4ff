package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/MatainjaTechnologies/natuurhuisje-sub000/user_service/authorization"
	"github.com/MatainjaTechnologies/natuurhuisje-sub000/user_service/domain"
	application "github.com/MatainjaTechnologies/natuurhuisje-sub000/user_service/service"
)

type UserHandler struct {
	service *application.UserService
	tracer  trace.Tracer
}

func NewUserHandler(service *application.UserService, tracer trace.Tracer) *UserHandler {
	return &UserHandler{
		service: service,
		tracer:  tracer,
	}
}

func (handler *UserHandler) Init(router *mux.Router) {
	router.Use(ExtractTraceInfoMiddleware)
	router.HandleFunc("/", handler.GetAll).Methods("GET")
	router.HandleFunc("/", handler.Register).Methods("POST")
	router.HandleFunc("/getOne/{username}", handler.GetOne).Methods("GET")
	router.HandleFunc("/mailExist/{mail}", handler.MailExist).Methods("GET")
	router.HandleFunc("/changeUsername", handler.ChangeUsername).Methods("POST")
	router.HandleFunc("/profile/", handler.Profile).Methods("GET")
	router.HandleFunc("/profile/", handler.SaveProfile).Methods("PUT")
	router.HandleFunc("/favorites", handler.GetFavorites).Methods("GET")
	router.HandleFunc("/favorites/{houseId}", handler.IsFavorite).Methods("GET")
	router.HandleFunc("/favorites/{houseId}", handler.AddFavorite).Methods("POST")
	router.HandleFunc("/favorites/{houseId}", handler.RemoveFavorite).Methods("DELETE")
	router.HandleFunc("/{id}", handler.Get).Methods("GET")
	router.HandleFunc("/{userID}", handler.UpdateUser).Methods("PATCH")
	router.HandleFunc("/{id}/delete", handler.DeleteAccount).Methods("DELETE")
}

func (handler *UserHandler) Register(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.Register")
	defer span.End()

	var user domain.User
	err := json.NewDecoder(req.Body).Decode(&user)
	if err != nil {
		log.Println(err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := handler.service.Register(ctx, &user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	newUser, err := json.Marshal(saved)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.WriteHeader(http.StatusOK)
	jsonResponse(newUser, writer)
}

func (handler *UserHandler) UpdateUser(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.UpdateUser")
	defer span.End()

	vars := mux.Vars(req)
	userID, err := primitive.ObjectIDFromHex(vars["userID"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid user ID", http.StatusBadRequest)
		return
	}

	existingUser, err := handler.service.Get(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "User not found", http.StatusBadRequest)
		return
	}

	var updatePayload map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&updatePayload); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	if newEmail, ok := updatePayload["email"].(string); ok && newEmail != existingUser.Email {
		if _, err := handler.service.DoesEmailExist(ctx, newEmail); err == nil {
			span.SetStatus(codes.Error, "Updated email already exists")
			http.Error(writer, "Updated email already exists", http.StatusMethodNotAllowed)
			return
		}
	}

	// Identity fields are not patchable.
	for key := range updatePayload {
		switch key {
		case "id", "username", "userType":
			delete(updatePayload, key)
		}
	}

	if err := mapstructure.Decode(updatePayload, &existingUser); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	updatedUser, err := handler.service.UpdateUser(ctx, existingUser)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(updatedUser, writer)
}

func (handler *UserHandler) ChangeUsername(writer http.ResponseWriter, request *http.Request) {
	ctx, span := handler.tracer.Start(request.Context(), "UserHandler.ChangeUsername")
	defer span.End()

	var username domain.UsernameChange
	err := json.NewDecoder(request.Body).Decode(&username)
	if err != nil {
		log.Println(err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	status, statusCode, err := handler.service.ChangeUsername(ctx, username)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println("Error in ChangeUsername:", err)
		var errorMessage string

		switch status {
		case "GetUserErr":
			errorMessage = "Error getting user"
		case "baseErr":
			errorMessage = "Internal server error"
		default:
			errorMessage = "An error occurred: " + err.Error()
		}

		http.Error(writer, errorMessage, statusCode)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *UserHandler) GetAll(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.GetAll")
	defer span.End()

	users, err := handler.service.GetAll(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(users, writer)
}

func (handler *UserHandler) Get(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.Get")
	defer span.End()

	vars := mux.Vars(req)
	id, ok := vars["id"]
	if !ok {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusBadRequest)
		return
	}

	user, err := handler.service.Get(ctx, objectID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(user, writer)
}

func (handler *UserHandler) GetOne(writer http.ResponseWriter, request *http.Request) {
	ctx, span := handler.tracer.Start(request.Context(), "UserHandler.GetOne")
	defer span.End()

	vars := mux.Vars(request)
	username := vars["username"]

	user, err := handler.service.GetOneUser(ctx, username)
	if err != nil {
		log.Println(err)
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(user, writer)
}

// Profile returns the caller's profile. Users who never saved one get the
// default profile back, never an error.
func (handler *UserHandler) Profile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.Profile")
	defer span.End()

	userID, err := handler.callerID(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := handler.service.GetProfile(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(profile, writer)
}

func (handler *UserHandler) SaveProfile(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.SaveProfile")
	defer span.End()

	userID, err := handler.callerID(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var profile domain.Profile
	if err := json.NewDecoder(req.Body).Decode(&profile); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	profile.UserId = userID.Hex()

	if err := handler.service.SaveProfile(ctx, &profile); err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(&profile, writer)
}

func (handler *UserHandler) GetFavorites(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.GetFavorites")
	defer span.End()

	userID, err := handler.callerID(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	favorites, err := handler.service.GetFavorites(ctx, userID.Hex())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	if favorites == nil {
		favorites = []*domain.Favorite{}
	}
	writeJSON(favorites, writer)
}

// IsFavorite reports whether the caller saved the house, for the heart
// toggle on the listing page.
func (handler *UserHandler) IsFavorite(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.IsFavorite")
	defer span.End()

	userID, err := handler.callerID(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	houseId := mux.Vars(req)["houseId"]
	favorite, err := handler.service.IsFavorite(ctx, userID.Hex(), houseId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(map[string]bool{"favorite": favorite}, writer)
}

func (handler *UserHandler) AddFavorite(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.AddFavorite")
	defer span.End()

	userID, err := handler.callerID(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	houseId := mux.Vars(req)["houseId"]
	favorite, err := handler.service.AddFavorite(ctx, userID.Hex(), houseId)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusCreated)
	writeJSON(favorite, writer)
}

func (handler *UserHandler) RemoveFavorite(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.RemoveFavorite")
	defer span.End()

	userID, err := handler.callerID(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Unauthorized", http.StatusUnauthorized)
		return
	}

	houseId := mux.Vars(req)["houseId"]
	if err := handler.service.RemoveFavorite(ctx, userID.Hex(), houseId); err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusNoContent)
}

func (handler *UserHandler) DeleteAccount(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.DeleteAccount")
	defer span.End()

	vars := mux.Vars(req)
	userID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		http.Error(writer, "Invalid user ID", http.StatusBadRequest)
		return
	}

	err = handler.service.DeleteAccount(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if err == application.ErrAccountHasBookings {
			http.Error(writer, err.Error(), http.StatusMethodNotAllowed)
			return
		}
		http.Error(writer, "Error deleting account", http.StatusInternalServerError)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

func (handler *UserHandler) MailExist(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UserHandler.MailExist")
	defer span.End()

	vars := mux.Vars(req)
	mail, ok := vars["mail"]
	if !ok {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}

	id, err := handler.service.DoesEmailExist(ctx, mail)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		writer.WriteHeader(http.StatusNotFound)
		return
	}

	_, err = writer.Write([]byte(id))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println(err.Error())
		return
	}
}

func (handler *UserHandler) callerID(req *http.Request) (primitive.ObjectID, error) {
	userId, err := authorization.ExtractUserId(req)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(userId)
}

func writeJSON(v interface{}, writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(v); err != nil {
		log.Println("error encoding response:", err)
	}
}

func jsonResponse(payload []byte, writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "application/json")
	if _, err := writer.Write(payload); err != nil {
		log.Println("error writing response:", err)
	}
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package authorization

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/cristalhq/jwt/v4"
)

var jwtKey = []byte(os.Getenv("SECRET_KEY"))

var verifier, _ = jwt.NewVerifierHS(jwt.HS256, jwtKey)

func GetToken(tokenString string) *jwt.Token {
	token, err := jwt.Parse([]byte(tokenString), verifier)
	if err != nil {
		log.Println(err)
	}
	return token
}

func GetMapClaims(tokenBytes []byte) map[string]string {
	var claims map[string]string

	err := jwt.ParseClaims(tokenBytes, verifier, &claims)
	if err != nil {
		log.Println(err)
	}

	return claims
}

// ExtractUserId pulls the authenticated user id out of the bearer token.
func ExtractUserId(r *http.Request) (string, error) {
	bearer := r.Header.Get("Authorization")
	if bearer == "" {
		return "", errors.New("Authorization header missing")
	}

	bearerToken := strings.Split(bearer, "Bearer ")
	if len(bearerToken) != 2 {
		return "", errors.New("invalid token format")
	}

	token, err := jwt.Parse([]byte(bearerToken[1]), verifier)
	if err != nil {
		return "", err
	}

	claims := GetMapClaims(token.Bytes())
	userId, ok := claims["user_id"]
	if !ok || userId == "" {
		return "", errors.New("user id not present in token")
	}
	return userId, nil
}

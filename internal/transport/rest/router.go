package rest

import (
	"net/http"
	"quizbank/internal/config"
	"quizbank/internal/service"
	"quizbank/internal/transport/rest/handler"
	"quizbank/internal/transport/rest/middleware"
	"quizbank/internal/transport/ws"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Container holds all dependencies for the router
type Container struct {
	QuestionService *service.QuestionService
	QuizService     *service.QuizService
	WSHub           *ws.Hub
	CORS            config.CORS
	Logger          *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	questionHandler := handler.NewQuestionHandler(c.QuestionService, c.Logger)
	quizHandler := handler.NewQuizHandler(c.QuizService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.Logger)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Question bank
	r.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	r.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	r.HandleFunc("/questions/{index}", questionHandler.Update).Methods("PUT", "OPTIONS")
	r.HandleFunc("/questions/{index}", questionHandler.Delete).Methods("DELETE", "OPTIONS")

	// Quiz flow
	r.HandleFunc("/getQuestions", quizHandler.GetQuestions).Methods("POST", "OPTIONS")
	r.HandleFunc("/finalist", quizHandler.Finalist).Methods("POST", "OPTIONS")
	r.HandleFunc("/results/{date}", quizHandler.Results).Methods("GET", "OPTIONS")

	// Results feed
	r.HandleFunc("/ws/results", wsHandler.ResultsWS).Methods("GET")

	// Wrapped around the whole router so 404 and 405 responses get CORS
	// headers and an access log line too. Recover is outermost.
	var h http.Handler = r
	h = middleware.CORS(c.CORS)(h)
	h = middleware.Logging(c.Logger)(h)
	h = middleware.Recover(c.Logger)(h)
	return h
}

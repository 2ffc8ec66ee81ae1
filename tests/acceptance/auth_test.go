package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gravyapp/gravy/internal/dto"
)

func (s *Suite) postJSON(path string, body any) *http.Response {
	s.T().Helper()

	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.BaseURL+path, "application/json", bytes.NewBuffer(raw))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) signup(email, password string) *http.Response {
	return s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
		DisplayName:     "Test User",
	})
}

// login returns the session cookie from a successful login.
func (s *Suite) login(email, password string) *http.Cookie {
	s.T().Helper()

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{Email: email, Password: password})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "gravy_session" && c.Value != "" {
			return c
		}
	}
	s.T().Fatal("no session cookie in login response")
	return nil
}

func (s *Suite) TestSignup_Success() {
	resp := s.signup("a@x.com", "longenough1")
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var user dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&user))

	s.NotEmpty(user.ID)
	s.Require().NotNil(user.Email)
	s.Equal("a@x.com", *user.Email)
	s.False(user.Online, "signup must not log the user in")

	for _, c := range resp.Cookies() {
		s.NotEqual("gravy_session", c.Name, "signup must not establish a session")
	}
}

func (s *Suite) TestSignup_DuplicateEmail() {
	resp1 := s.signup("duplicate@x.com", "longenough1")
	resp1.Body.Close()
	s.Require().Equal(http.StatusCreated, resp1.StatusCode)

	resp2 := s.signup("duplicate@x.com", "different2pass")
	defer resp2.Body.Close()

	s.Equal(http.StatusConflict, resp2.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp2.Body).Decode(&errResp))
	s.Equal("Conflict", errResp.Error)

	// original credentials still work
	cookie := s.login("duplicate@x.com", "longenough1")
	s.NotEmpty(cookie.Value)
}

func (s *Suite) TestSignup_PasswordMismatch() {
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:           "a@x.com",
		Password:        "longenough1",
		ConfirmPassword: "different2pass",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestSignup_ShortPassword() {
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:           "a@x.com",
		Password:        "short",
		ConfirmPassword: "short",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_SetsPresence() {
	resp := s.signup("a@x.com", "longenough1")
	resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	s.False(s.userOnline("a@x.com"))

	s.login("a@x.com", "longenough1")

	s.True(s.userOnline("a@x.com"))
}

func (s *Suite) TestLogin_WrongPassword() {
	resp := s.signup("a@x.com", "longenough1")
	resp.Body.Close()

	loginResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "a@x.com",
		Password: "wrong",
	})
	defer loginResp.Body.Close()

	s.Equal(http.StatusUnauthorized, loginResp.StatusCode)
	s.False(s.userOnline("a@x.com"), "failed login must not flip presence")
}

func (s *Suite) TestLogin_UnknownEmailIndistinguishable() {
	resp := s.signup("a@x.com", "longenough1")
	resp.Body.Close()

	unknownResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "nobody@x.com",
		Password: "longenough1",
	})
	defer unknownResp.Body.Close()

	wrongResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "a@x.com",
		Password: "wrong",
	})
	defer wrongResp.Body.Close()

	s.Equal(http.StatusUnauthorized, unknownResp.StatusCode)
	s.Equal(http.StatusUnauthorized, wrongResp.StatusCode)

	var unknownErr, wrongErr dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(unknownResp.Body).Decode(&unknownErr))
	s.Require().NoError(json.NewDecoder(wrongResp.Body).Decode(&wrongErr))
	s.Equal(unknownErr.Message, wrongErr.Message, "response must not reveal which field was wrong")
}

func (s *Suite) TestMe_WithSession() {
	resp := s.signup("a@x.com", "longenough1")
	resp.Body.Close()
	cookie := s.login("a@x.com", "longenough1")

	req, err := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/auth/me", nil)
	s.Require().NoError(err)
	req.AddCookie(cookie)

	meResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer meResp.Body.Close()

	s.Equal(http.StatusOK, meResp.StatusCode)

	var user dto.UserResponse
	s.Require().NoError(json.NewDecoder(meResp.Body).Decode(&user))
	s.Require().NotNil(user.Email)
	s.Equal("a@x.com", *user.Email)
	s.True(user.Online)
}

func (s *Suite) TestMe_WithoutSession() {
	resp, err := http.Get(s.BaseURL + "/api/v1/auth/me")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout() {
	resp := s.signup("a@x.com", "longenough1")
	resp.Body.Close()
	cookie := s.login("a@x.com", "longenough1")
	s.True(s.userOnline("a@x.com"))

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/auth/logout", nil)
	s.Require().NoError(err)
	req.AddCookie(cookie)

	logoutResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer logoutResp.Body.Close()

	s.Equal(http.StatusOK, logoutResp.StatusCode)
	s.False(s.userOnline("a@x.com"))

	// session is gone
	meReq, err := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/auth/me", nil)
	s.Require().NoError(err)
	meReq.AddCookie(cookie)

	meResp, err := http.DefaultClient.Do(meReq)
	s.Require().NoError(err)
	defer meResp.Body.Close()

	s.Equal(http.StatusUnauthorized, meResp.StatusCode)
}

func (s *Suite) TestLogin_Repeated_SingleUserRow() {
	resp := s.signup("a@x.com", "longenough1")
	resp.Body.Close()

	s.login("a@x.com", "longenough1")
	s.login("a@x.com", "longenough1")

	var count int
	err := s.Postgres.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", "a@x.com").Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *Suite) TestHealth() {
	resp, err := http.Get(s.BaseURL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/internal/dto"
)

func (s *Suite) TestContact_Submit() {
	resp := s.postJSON("/api/v1/contact", dto.ContactRequest{
		Name:  "Visitor",
		Email: "visitor@x.com",
		Body:  "I have a question about the app.",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var count int
	err := s.Postgres.DB.QueryRow("SELECT COUNT(*) FROM contact_messages").Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *Suite) TestContact_SubmitInvalid() {
	resp := s.postJSON("/api/v1/contact", dto.ContactRequest{
		Name:  "Visitor",
		Email: "not-an-email",
		Body:  "hello",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestContact_ListRequiresSession() {
	resp, err := http.Get(s.BaseURL + "/api/v1/contact")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestContact_List() {
	submit := s.postJSON("/api/v1/contact", dto.ContactRequest{
		Name:  "Visitor",
		Email: "visitor@x.com",
		Body:  "I have a question about the app.",
	})
	submit.Body.Close()

	signupResp := s.signup("admin@x.com", "longenough1")
	signupResp.Body.Close()
	cookie := s.login("admin@x.com", "longenough1")

	req, err := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/contact", nil)
	s.Require().NoError(err)
	req.AddCookie(cookie)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var messages []domain.ContactMessage
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&messages))
	s.Require().Len(messages, 1)
	s.Equal("Visitor", messages[0].Name)
}

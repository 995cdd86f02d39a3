package tracker

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/bill-tracker/internal/bill"
	"github.com/zombor/bill-tracker/internal/extract"
	"github.com/zombor/bill-tracker/internal/mail"
)

var _ = Describe("Server", func() {
	var (
		mailbox     *mockMailbox
		db          *mockDB
		service     *Service
		auth        BasicAuth
		server      *Server
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	BeforeEach(func() {
		mailbox = &mockMailbox{}
		db = &mockDB{}
		timeSource := &mockTimeSource{now: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
		dispatcher := extract.NewDispatcher(extract.DefaultExtractors()...)

		var err error
		service, err = NewServiceWithDeps(mailbox, dispatcher, db, Options{LookbackDays: 30, MaxBills: 100}, timeSource)
		Expect(err).NotTo(HaveOccurred())

		auth = BasicAuth{}
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("handleIndex", func() {
		It("should serve the dashboard", func() {
			resp, err := http.Get(ghttpServer.URL() + "/")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/html"))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("Utility Bills"))
		})
	})

	Describe("handleListBills", func() {
		BeforeEach(func() {
			db.snapshot = &bill.Snapshot{
				Bills: []bill.Bill{{ID: "a", Provider: "Duke Energy", Status: bill.StatusDue}},
				Count: 1,
			}
		})

		It("should return the stored bills", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/bills")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("application/json"))

			var bills []bill.Bill
			Expect(json.NewDecoder(resp.Body).Decode(&bills)).To(Succeed())
			Expect(bills).To(HaveLen(1))
			Expect(bills[0].Provider).To(Equal("Duke Energy"))
		})
	})

	Describe("handleSummary", func() {
		BeforeEach(func() {
			db.snapshot = &bill.Snapshot{
				Summary: bill.Summary{
					ByProvider:     map[string]int{"Duke Energy": 1},
					TotalAmountDue: 85.50,
					NextDueDate:    "2025-03-20",
				},
				Count: 1,
			}
		})

		It("should return the stored summary", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/summary")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var summary bill.Summary
			Expect(json.NewDecoder(resp.Body).Decode(&summary)).To(Succeed())
			Expect(summary.TotalAmountDue).To(Equal(85.50))
			Expect(summary.NextDueDate).To(Equal("2025-03-20"))
		})
	})

	Describe("handleSnapshot", func() {
		When("no poll has run yet", func() {
			It("should return an empty snapshot", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/snapshot")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var snapshot bill.Snapshot
				Expect(json.NewDecoder(resp.Body).Decode(&snapshot)).To(Succeed())
				Expect(snapshot.Count).To(Equal(0))
				Expect(snapshot.Bills).To(BeEmpty())
			})
		})
	})

	Describe("handleRefresh", func() {
		When("the mailbox responds", func() {
			BeforeEach(func() {
				mailbox.msgs = []mail.Message{dukeMessage()}
			})

			It("should poll and return the fresh snapshot", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/refresh", "application/json", nil)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var snapshot bill.Snapshot
				Expect(json.NewDecoder(resp.Body).Decode(&snapshot)).To(Succeed())
				Expect(snapshot.Count).To(Equal(1))
				Expect(db.latest()).NotTo(BeNil())
			})
		})

		When("the mailbox is unreachable", func() {
			BeforeEach(func() {
				mailbox.err = errors.New("connection refused")
			})

			It("should return bad gateway", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/refresh", "application/json", nil)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))
			})
		})
	})

	Describe("handleHealth", func() {
		It("should report ok", func() {
			resp, err := http.Get(ghttpServer.URL() + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var status map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&status)).To(Succeed())
			Expect(status["status"]).To(Equal("ok"))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "admin", Password: "secret"}
			setupServer()
		})

		When("credentials are missing", func() {
			It("should return unauthorized", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/bills")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(resp.Header.Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
			})
		})

		When("credentials are wrong", func() {
			It("should return unauthorized", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/bills", nil)
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("admin", "wrong")

				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})
		})

		When("credentials are valid", func() {
			It("should serve the request", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/bills", nil)
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("admin", "secret")

				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			})
		})

		When("the health check is probed without credentials", func() {
			It("should stay open", func() {
				resp, err := http.Get(ghttpServer.URL() + "/healthz")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			})
		})
	})
})

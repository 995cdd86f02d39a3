package tracker

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/bill-tracker/internal/extract"
	"github.com/zombor/bill-tracker/internal/mail"
)

var _ = Describe("Poller", func() {
	var (
		mailbox *mockMailbox
		db      *mockDB
		service *Service
		poller  *Poller
	)

	BeforeEach(func() {
		mailbox = &mockMailbox{msgs: []mail.Message{dukeMessage()}}
		db = &mockDB{}
		timeSource := &mockTimeSource{now: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
		dispatcher := extract.NewDispatcher(extract.DefaultExtractors()...)

		var err error
		service, err = NewServiceWithDeps(mailbox, dispatcher, db, Options{LookbackDays: 30, MaxBills: 100}, timeSource)
		Expect(err).NotTo(HaveOccurred())

		poller = NewPoller(service, time.Hour)
	})

	It("should refresh immediately on start", func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			poller.Run(ctx)
		}()

		Eventually(func() int {
			snapshot, err := service.Latest()
			if err != nil {
				return 0
			}
			return snapshot.Count
		}).Should(Equal(1))

		cancel()
		Eventually(done).Should(BeClosed())
	})

	It("should keep running after a failed cycle", func() {
		mailbox.err = errors.New("connection refused")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			poller.Run(ctx)
		}()

		Consistently(func() interface{} {
			snapshot, err := service.Latest()
			if err != nil {
				return err
			}
			return snapshot.Count
		}).Should(Equal(0))

		cancel()
		Eventually(done).Should(BeClosed())
	})
})

// Package notify delivers receipt mails after a shipment has committed.
// Delivery runs on its own goroutine and its own database reads; a failed
// mail can never affect the already-returned creation response.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/JTTomasCH/Logicoders/database"
	"github.com/JTTomasCH/Logicoders/mailer"
	"github.com/JTTomasCH/Logicoders/model"
	"github.com/JTTomasCH/Logicoders/render"
)

// PDFFunc turns receipt HTML into PDF bytes. Injected so tests do not need
// a browser.
type PDFFunc func(html string) ([]byte, error)

type task struct {
	recoleccionID int
}

// Dispatcher owns the post-commit receipt queue.
type Dispatcher struct {
	db      *sqlx.DB
	mail    mailer.Mailer
	pdf     PDFFunc
	baseURL string
	tasks   chan task
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewDispatcher(db *sqlx.DB, m mailer.Mailer, pdf PDFFunc, baseURL string, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		db:      db,
		mail:    m,
		pdf:     pdf,
		baseURL: baseURL,
		tasks:   make(chan task, queueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	d.cancel = cancel
	go d.worker(ctx)
}

// Stop cancels the worker and waits for it to drain.
func (d *Dispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	<-d.done
}

// Enqueue schedules a receipt mail for a committed shipment. Never blocks
// the caller: when the queue is full the notification is dropped with a
// warning, the shipment itself is already safe.
func (d *Dispatcher) Enqueue(recoleccionID int) {
	select {
	case d.tasks <- task{recoleccionID: recoleccionID}:
	default:
		log.Printf("WARN: [Notify] queue full, dropping receipt mail for recoleccion %d", recoleccionID)
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-d.tasks:
			det, err := database.GetRecoleccionDetail(d.db, t.recoleccionID)
			if err != nil {
				log.Printf("WARN: [Notify] failed to load recoleccion %d: %v", t.recoleccionID, err)
				continue
			}
			if det == nil {
				log.Printf("WARN: [Notify] recoleccion %d vanished before notification", t.recoleccionID)
				continue
			}
			if err := SendReceipt(d.mail, d.pdf, d.baseURL, det, ""); err != nil {
				log.Printf("WARN: [Notify] could not send receipt for %s: %v", det.NumeroGuia, err)
			}
		}
	}
}

// SendReceipt renders the comprobante, prints it to PDF and mails it to the
// override address or, failing that, the sender's stored email.
func SendReceipt(m mailer.Mailer, pdfFn PDFFunc, baseURL string, det *model.RecoleccionDetail, toOverride string) error {
	to := toOverride
	if to == "" {
		to = det.RemEmail
	}
	if to == "" {
		return fmt.Errorf("el remitente no tiene correo para enviar el comprobante")
	}

	viewURL := fmt.Sprintf("%s/api/recolecciones/%d/comprobante", baseURL, det.ID)
	page := render.ReceiptHTML(det)
	pdfData, err := pdfFn(page)
	if err != nil {
		return fmt.Errorf("failed to render receipt pdf: %w", err)
	}

	msg := mailer.Message{
		To:      to,
		Subject: fmt.Sprintf("Comprobante de solicitud %s", det.NumeroGuia),
		HTML:    render.ReceiptMailHTML(det, viewURL),
		Attachment: &mailer.Attachment{
			Filename:    fmt.Sprintf("Comprobante_%s.pdf", det.NumeroGuia),
			ContentType: "application/pdf",
			Data:        pdfData,
		},
	}
	return m.Send(msg)
}

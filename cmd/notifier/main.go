package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rota-manager/backend/internal/queue"
	"github.com/wneessen/go-mail"
)

// channelFor 根据通知类型选择外部渠道。
func channelFor(notificationType string) string {
	switch notificationType {
	case domain.NotificationShiftReminder, domain.NotificationScheduleChange:
		return "paco"
	case domain.NotificationTimesheetApproved, domain.NotificationTimesheetRejected:
		return "email"
	case domain.NotificationUrgentShift, domain.NotificationShiftCancellation:
		return "sms"
	default:
		return ""
	}
}

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 创建邮件客户端（审批结果类通知走邮件渠道）
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	if err := queue.DeclareQueues(ch); err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		queue.NotificationQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				dispatch := domain.NotificationDispatch{}
				if err := json.Unmarshal(msg.Body, &dispatch); err != nil {
					logger.Error("通知消息反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				switch channelFor(dispatch.Type) {
				case "paco":
					// PACO 网关尚未接入，先记录日志占位
					logger.Info("PACO 通知",
						slog.String("notificationID", dispatch.NotificationID),
						slog.String("recipient", dispatch.RecipientName),
						slog.String("title", dispatch.Title),
					)
					_ = msg.Ack(false)
				case "sms":
					// 短信网关尚未接入，先记录日志占位
					logger.Info("短信通知",
						slog.String("notificationID", dispatch.NotificationID),
						slog.String("recipient", dispatch.RecipientName),
						slog.String("title", dispatch.Title),
					)
					_ = msg.Ack(false)
				case "email":
					m := mail.NewMsg()
					if err := m.From(cfg.Email.SMTP.Username); err != nil {
						logger.Error("无法设置邮件发件人", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.To(dispatch.RecipientEmail); err != nil {
						logger.Error("无法设置邮件收件人", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}

					tmpl, err := template.ParseFiles("./templates/notification_email.html")
					if err != nil {
						logger.Error("无法解析邮件模板", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.SetBodyHTMLTemplate(tmpl, dispatch); err != nil {
						logger.Error("无法设置邮件正文", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m.Subject("排班系统 - " + dispatch.Title)

					if err := client.DialAndSend(m); err != nil {
						logger.Error("邮件发送失败", slog.String("error", err.Error()))
						_ = msg.Nack(false, true) // 将消息重新入队
						continue
					}
					_ = msg.Ack(false)
				default:
					logger.Error("不支持的通知类型", slog.String("type", dispatch.Type))
					_ = msg.Nack(false, false)
				}
			}
		}
	}()

	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	slog.Info("正在关闭 notifier worker...")
	cancel()
	wg.Wait()
	slog.Info("notifier worker 已成功关闭")
}

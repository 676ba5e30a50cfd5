package generator

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"kubegems.io/servingconf/pkg/errors"
	"kubegems.io/servingconf/pkg/serving"
	"kubegems.io/servingconf/pkg/storage"
)

type Options struct {
	StorageBucket string `json:"storageBucket,omitempty" mapstructure:"storageBucket"`
	ModelPrefix   string `json:"modelPrefix,omitempty" mapstructure:"modelPrefix"`
	FilePath      string `json:"filePath,omitempty" mapstructure:"filePath"`

	// CloudProvider selects the bucket from AWSS3Bucket or GCloudStorageBucket
	// when StorageBucket is empty.
	CloudProvider       string `json:"cloudProvider,omitempty" mapstructure:"cloudProvider"`
	AWSS3Bucket         string `json:"awsS3Bucket,omitempty" mapstructure:"awsS3Bucket"`
	GCloudStorageBucket string `json:"gcloudStorageBucket,omitempty" mapstructure:"gcloudStorageBucket"`

	EnableBatching     bool   `json:"enableBatching,omitempty" mapstructure:"enableBatching"`
	BatchFilePath      string `json:"batchFilePath,omitempty" mapstructure:"batchFilePath"`
	MaxBatchSize       int    `json:"maxBatchSize,omitempty" mapstructure:"maxBatchSize"`
	BatchTimeout       int    `json:"batchTimeout,omitempty" mapstructure:"batchTimeout"`
	MaxEnqueuedBatches int    `json:"maxEnqueuedBatches,omitempty" mapstructure:"maxEnqueuedBatches"`

	MonitoringFilePath string `json:"monitoringFilePath,omitempty" mapstructure:"monitoringFilePath"`
	EnableMonitoring   bool   `json:"enableMonitoring,omitempty" mapstructure:"enableMonitoring"`
	MonitoringPath     string `json:"monitoringPath,omitempty" mapstructure:"monitoringPath"`

	Debug   bool             `json:"debug,omitempty" mapstructure:"debug"`
	Storage *storage.Options `json:"storage,omitempty" mapstructure:"storage"`
}

func DefaultOptions() *Options {
	return &Options{
		ModelPrefix:        "models",
		FilePath:           "models.conf",
		EnableBatching:     false,
		BatchFilePath:      "batch.conf",
		MaxBatchSize:       1,
		BatchTimeout:       0,
		MaxEnqueuedBatches: 128,
		EnableMonitoring:   true,
		MonitoringPath:     serving.DefaultMonitoringPath,
		Storage:            storage.NewDefaultOptions(),
	}
}

type binding struct {
	key  string
	flag string
	env  string
}

var bindings = []binding{
	{key: "storageBucket", flag: "storage-bucket", env: "STORAGE_BUCKET"},
	{key: "modelPrefix", flag: "model-prefix", env: "MODEL_PREFIX"},
	{key: "filePath", flag: "file-path", env: "FILE_PATH"},
	{key: "cloudProvider", flag: "cloud-provider", env: "CLOUD_PROVIDER"},
	{key: "awsS3Bucket", env: "AWS_S3_BUCKET"},
	{key: "gcloudStorageBucket", env: "GCLOUD_STORAGE_BUCKET"},
	{key: "enableBatching", flag: "enable-batching", env: "ENABLE_BATCHING"},
	{key: "batchFilePath", flag: "batch-file-path", env: "BATCH_FILE_PATH"},
	{key: "maxBatchSize", flag: "max-batch-size", env: "MAX_BATCH_SIZE"},
	{key: "batchTimeout", flag: "batch-timeout", env: "BATCH_TIMEOUT"},
	{key: "maxEnqueuedBatches", flag: "max-enqueued-batches", env: "MAX_ENQUEUED_BATCHES"},
	{key: "monitoringFilePath", flag: "monitoring-file-path", env: "MONITORING_FILE_PATH"},
	{key: "enableMonitoring", flag: "enable-monitoring", env: "ENABLE_MONITORING"},
	{key: "monitoringPath", flag: "monitoring-path", env: "MONITORING_PATH"},
	{key: "debug", flag: "debug", env: "DEBUG"},
	{key: "storage.s3.url", flag: "s3-url", env: "AWS_S3_URL"},
	{key: "storage.s3.region", flag: "s3-region", env: "AWS_REGION"},
	{key: "storage.s3.accessKey", flag: "s3-access-key", env: "AWS_ACCESS_KEY_ID"},
	{key: "storage.s3.secretKey", flag: "s3-secret-key", env: "AWS_SECRET_ACCESS_KEY"},
	{key: "storage.s3.pathStyle", flag: "s3-path-style", env: "AWS_S3_PATH_STYLE"},
	{key: "storage.gcs.credentialsFile", flag: "gcs-credentials-file", env: "GOOGLE_APPLICATION_CREDENTIALS"},
	{key: "storage.gcs.quotaProject", flag: "gcs-quota-project", env: "GOOGLE_CLOUD_QUOTA_PROJECT"},
	{key: "storage.minio.endpoint", flag: "minio-endpoint", env: "MINIO_ENDPOINT"},
	{key: "storage.minio.accessKey", flag: "minio-access-key", env: "MINIO_ACCESS_KEY"},
	{key: "storage.minio.secretKey", flag: "minio-secret-key", env: "MINIO_SECRET_KEY"},
	{key: "storage.minio.region", flag: "minio-region", env: "MINIO_REGION"},
	{key: "storage.minio.useSSL", flag: "minio-use-ssl", env: "MINIO_USE_SSL"},
}

// AddStorageFlags registers the flags needed to reach a bucket.
func (o *Options) AddStorageFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.StorageBucket, "storage-bucket", o.StorageBucket, "storage bucket url, e.g. s3://bucket, gs://bucket or minio://bucket")
	flags.StringVar(&o.ModelPrefix, "model-prefix", o.ModelPrefix, "base directory of models in the bucket")
	flags.StringVar(&o.CloudProvider, "cloud-provider", o.CloudProvider, "legacy bucket selection when --storage-bucket is empty: aws or gke")
	flags.BoolVar(&o.Debug, "debug", o.Debug, "enable debug logging")

	s3opts, gcsopts, minioopts := o.Storage.S3, o.Storage.GCS, o.Storage.MinIO
	flags.StringVar(&s3opts.URL, "s3-url", s3opts.URL, "s3 endpoint url, empty for aws")
	flags.StringVar(&s3opts.Region, "s3-region", s3opts.Region, "s3 region")
	flags.StringVar(&s3opts.AccessKey, "s3-access-key", s3opts.AccessKey, "s3 access key")
	flags.StringVar(&s3opts.SecretKey, "s3-secret-key", s3opts.SecretKey, "s3 secret key")
	flags.BoolVar(&s3opts.PathStyle, "s3-path-style", s3opts.PathStyle, "use s3 path style addressing")
	flags.StringVar(&gcsopts.CredentialsFile, "gcs-credentials-file", gcsopts.CredentialsFile, "gcs service account credentials file")
	flags.StringVar(&gcsopts.QuotaProject, "gcs-quota-project", gcsopts.QuotaProject, "gcs quota project")
	flags.StringVar(&minioopts.Endpoint, "minio-endpoint", minioopts.Endpoint, "minio endpoint host:port")
	flags.StringVar(&minioopts.AccessKey, "minio-access-key", minioopts.AccessKey, "minio access key")
	flags.StringVar(&minioopts.SecretKey, "minio-secret-key", minioopts.SecretKey, "minio secret key")
	flags.StringVar(&minioopts.Region, "minio-region", minioopts.Region, "minio region")
	flags.BoolVar(&minioopts.UseSSL, "minio-use-ssl", minioopts.UseSSL, "connect to minio over https")
}

// AddFlags registers every flag of the write command.
func (o *Options) AddFlags(flags *pflag.FlagSet) {
	o.AddStorageFlags(flags)
	flags.StringVar(&o.FilePath, "file-path", o.FilePath, "model config file to write")
	flags.BoolVar(&o.EnableBatching, "enable-batching", o.EnableBatching, "write the batch config file")
	flags.StringVar(&o.BatchFilePath, "batch-file-path", o.BatchFilePath, "batch config file to write")
	flags.IntVar(&o.MaxBatchSize, "max-batch-size", o.MaxBatchSize, "max batch size")
	flags.IntVar(&o.BatchTimeout, "batch-timeout", o.BatchTimeout, "batch timeout in microseconds")
	flags.IntVar(&o.MaxEnqueuedBatches, "max-enqueued-batches", o.MaxEnqueuedBatches, "max enqueued batches")
	flags.StringVar(&o.MonitoringFilePath, "monitoring-file-path", o.MonitoringFilePath, "monitoring config file to write, empty to skip")
	flags.BoolVar(&o.EnableMonitoring, "enable-monitoring", o.EnableMonitoring, "enable prometheus metrics")
	flags.StringVar(&o.MonitoringPath, "monitoring-path", o.MonitoringPath, "prometheus metrics path")
}

// Load resolves o from flags, environment and an optional config file, in that order of precedence.
func (o *Options) Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) error {
	for _, b := range bindings {
		if b.flag != "" {
			if flag := flags.Lookup(b.flag); flag != nil {
				if err := v.BindPFlag(b.key, flag); err != nil {
					return err
				}
			}
		}
		if err := v.BindEnv(b.key, b.env); err != nil {
			return err
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.NewConfigInvalidError(fmt.Sprintf("read config %s: %v", configFile, err))
		}
	}
	if err := v.Unmarshal(o); err != nil {
		return errors.NewConfigInvalidError(fmt.Sprintf("decode config: %v", err))
	}
	return nil
}

// BucketURL resolves the bucket to scan. A prefix in the url takes precedence over ModelPrefix.
func (o *Options) BucketURL() (storage.BucketURL, error) {
	raw := o.StorageBucket
	if raw == "" {
		switch provider := strings.ToLower(o.CloudProvider); provider {
		case "aws":
			raw = storage.BackendS3.Scheme() + "://" + o.AWSS3Bucket
		case "gke", "gcp":
			raw = storage.BackendGCS.Scheme() + "://" + o.GCloudStorageBucket
		case "":
			return storage.BucketURL{}, errors.NewParameterInvalidError("storage bucket is required")
		default:
			return storage.BucketURL{}, errors.NewUnknownProtocolError(o.CloudProvider)
		}
	}
	u, err := storage.ParseBucketURL(raw)
	if err != nil {
		return storage.BucketURL{}, err
	}
	if u.Prefix == "" {
		u.Prefix = o.ModelPrefix
	}
	return u, nil
}
